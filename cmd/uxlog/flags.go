package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Geun-Oh/uxlog/internal/config"
	"github.com/Geun-Oh/uxlog/internal/filter"
	"github.com/Geun-Oh/uxlog/internal/pipeline"
	"github.com/Geun-Oh/uxlog/internal/sink"
	"github.com/Geun-Oh/uxlog/internal/source"
	"github.com/spf13/pflag"
)

const configKeyAnnotation = "uxlog_config_key"

// bind marks a flag as the command-line override of a config key. Several
// commands share keys, so the binding happens in bindFlags for the command
// that actually runs.
func bind(fs *pflag.FlagSet, key, flag string) {
	if err := fs.SetAnnotation(flag, configKeyAnnotation, []string{key}); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// bindFlags binds every annotated flag of the running command into viper.
// A flag only overrides its key when set.
func bindFlags(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if len(keys) == 0 || err != nil {
			return
		}
		if bindErr := v.BindPFlag(keys[0], f); bindErr != nil {
			err = fmt.Errorf("bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// addSourceFlags registers the flags shared by every command that loads a dataset.
func addSourceFlags(fs *pflag.FlagSet) {
	fs.String("exec", "", "load the dataset from the stdout of a command")
	fs.Duration("timeout", 30*time.Second, "timeout for URL sources")
	fs.StringSlice("missions", nil, "analyze only these mission ids")
	fs.StringSliceP("event", "e", nil, "keep only these event kinds (name or Korean label)")
	fs.StringSlice("exclude", nil, "drop rows of these user ids")
	fs.StringP("keyword", "k", "", "keep only rows whose screen or target contains this keyword")
	fs.String("regex", "", "keep only rows whose target matches this regular expression")
	fs.String("since", "", "keep rows at or after this time (RFC 3339, 2006-01-02[ 15:04:05] KST)")
	fs.String("until", "", "keep rows at or before this time; a date alone includes that whole day")
	fs.BoolP("watch", "w", false, "reload when the source file changes")
	fs.Duration("debounce", 300*time.Millisecond, "quiet period before a watched file is reloaded")

	bind(fs, "analyze.timeout", "timeout")
	bind(fs, "analyze.missions", "missions")
	bind(fs, "analyze.events", "event")
	bind(fs, "analyze.exclude", "exclude")
	bind(fs, "analyze.keyword", "keyword")
	bind(fs, "analyze.regex", "regex")
	bind(fs, "analyze.since", "since")
	bind(fs, "analyze.until", "until")
	bind(fs, "analyze.watch", "watch")
	bind(fs, "analyze.debounce", "debounce")
}

// openSource picks the dataset source: --exec, then the positional argument,
// then analyze.source. "-" is stdin; http(s) URLs are fetched;
// s3://, file:// and mem:// URLs are read from object storage.
func openSource(fs *pflag.FlagSet, args []string, a config.AnalyzeConfig) (source.Source, error) {
	if command, _ := fs.GetString("exec"); command != "" {
		parts := strings.Fields(command)
		return source.NewExecSource(parts[0], parts[1:]), nil
	}

	target := a.Source
	if len(args) > 0 {
		target = args[0]
	}
	switch {
	case target == "":
		return nil, pipeline.ErrNoSource
	case target == "-":
		return source.NewStdinSource(), nil
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return source.NewURLSource(target, a.Timeout), nil
	case source.IsBlobURL(target):
		return source.NewBlobSource(target)
	default:
		return source.NewFileSource(target), nil
	}
}

// watchPath returns the file to watch, or "" when watching does not apply.
func watchPath(src source.Source, a config.AnalyzeConfig) string {
	fs, ok := src.(*source.FileSource)
	if !ok || !a.Watch {
		return ""
	}
	return fs.Path()
}

// buildFilters combines the row filters; every configured filter must match.
func buildFilters(a config.AnalyzeConfig) (*filter.Chain, error) {
	chain := filter.NewChain(filter.MatchAll)

	if a.Keyword != "" {
		chain.Add(filter.NewKeywordFilter(a.Keyword))
	}
	if a.Regex != "" {
		f, err := filter.NewRegexFilter(a.Regex)
		if err != nil {
			return nil, err
		}
		chain.Add(f)
	}
	if len(a.Events) > 0 {
		f := filter.ParseEventFilter(a.Events)
		if f == nil {
			return nil, fmt.Errorf("no known event kind in %q", strings.Join(a.Events, ","))
		}
		chain.Add(f)
	}
	if len(a.Exclude) > 0 {
		chain.Add(filter.NewExcludeFilter(a.Exclude...))
	}
	if a.Since != "" || a.Until != "" {
		since, ok := filter.ParseBound(a.Since)
		if a.Since != "" && !ok {
			return nil, fmt.Errorf("invalid --since %q", a.Since)
		}
		until, ok := filter.ParseUntil(a.Until)
		if a.Until != "" && !ok {
			return nil, fmt.Errorf("invalid --until %q", a.Until)
		}
		chain.Add(filter.NewWindowFilter(since, until))
	}
	return chain, nil
}

// buildSinks returns the report sinks for one run. Sinks are closed after each
// write, so watch mode builds a fresh set per load.
func buildSinks(a config.AnalyzeConfig) ([]sink.Sink, error) {
	if a.Output != "" {
		s, err := sink.NewFileSink(a.Output, a.Format)
		if err != nil {
			return nil, err
		}
		return []sink.Sink{s}, nil
	}
	switch a.Format {
	case sink.FormatJSON:
		return []sink.Sink{sink.NewJSONSink(os.Stdout, true)}, nil
	case sink.FormatFunnel:
		return []sink.Sink{sink.NewFunnelCSVSink(os.Stdout)}, nil
	default:
		return []sink.Sink{sink.NewTerminalSink(os.Stdout, a.Color && isTerminal(os.Stdout))}, nil
	}
}

func isTerminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
