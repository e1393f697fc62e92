package cmd

import (
	"fmt"
	"os"

	"github.com/Geun-Oh/uxlog/internal/entry"
	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/telemetry"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Send one tracked event to the telemetry endpoint",
	Example: `  uxlog track --endpoint http://localhost:9000/log --screen 편집2-1_화면 --event "버튼 클릭" --target 다음
  uxlog track --dry-run --screen 로그인 --event login`,
	Args: cobra.NoArgs,
	RunE: runTrack,
}

func init() {
	fs := trackCmd.Flags()
	fs.String("endpoint", "", "telemetry endpoint URL")
	fs.String("session", "", "session id written as 사용자ID (default: a new UUID)")
	fs.String("screen", "", "screen name")
	fs.String("event", "", "event kind (name or Korean label)")
	fs.String("target", "", "event target")
	fs.String("value", "", "event value")
	fs.String("device", "", "device: desktop or mobile")
	fs.Int64("dwell", 0, "dwell time in ms for screen exits")
	fs.Bool("dry-run", false, "print the record instead of sending it")
	_ = trackCmd.MarkFlagRequired("screen")
	_ = trackCmd.MarkFlagRequired("event")

	bind(fs, "telemetry.endpoint", "endpoint")
	bind(fs, "telemetry.session_id", "session")
}

func runTrack(cmd *cobra.Command, args []string) error {
	fs := cmd.Flags()
	name, _ := fs.GetString("event")
	kind := entry.ParseKind(name)
	if kind == entry.KindUnknown {
		return fmt.Errorf("unknown event %q", name)
	}

	e := telemetry.Event{Kind: kind}
	e.Screen, _ = fs.GetString("screen")
	e.Target, _ = fs.GetString("target")
	e.Value, _ = fs.GetString("value")
	e.Device, _ = fs.GetString("device")
	e.DwellMs, _ = fs.GetInt64("dwell")

	tc := cfg.Telemetry
	tracker := telemetry.NewTracker(telemetry.Config{
		Endpoint:      tc.Endpoint,
		SessionID:     tc.SessionID,
		RatePerSecond: tc.RatePerSecond,
		Timeout:       tc.Timeout,
	})

	if dry, _ := fs.GetBool("dry-run"); dry {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tracker.Record(e))
	}

	if err := tracker.Track(cmd.Context(), e); err != nil {
		return err
	}
	logging.Info().
		Str("session", tracker.SessionID()).
		Str("event", kind.String()).
		Str("screen", e.Screen).
		Msg("event sent")
	return nil
}
