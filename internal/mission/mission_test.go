package mission

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func simple(id, prefix string) Descriptor {
	return Descriptor{
		ID:             id,
		Name:           id,
		ScreenPrefix:   prefix,
		StartMarker:    prefix + "_미션시작",
		CompleteMarker: prefix + "_미션완료",
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"upload1", "edit2-1", "edit2-2", "memo3"}, r.IDs())

	shapes := map[string]Shape{
		"upload1": ShapeSimple,
		"edit2-1": ShapeSimple,
		"edit2-2": ShapeTwoStage,
		"memo3":   ShapeAB,
	}
	for _, d := range r.All() {
		assert.Equal(t, shapes[d.ID], d.Shape(), d.ID)
	}

	d, ok := r.Get("edit2-1")
	require.True(t, ok)
	assert.Equal(t, "편집2-1_미션시작", d.StartMarker)
	assert.Equal(t, "편집2-1_미션완료", d.CompleteMarker)
}

func TestRegistry_PreservesOrder(t *testing.T) {
	r, err := NewRegistry(simple("b", "B"), simple("a", "A"), simple("c", "C"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, r.IDs())
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_Duplicate(t *testing.T) {
	_, err := NewRegistry(simple("a", "A"), simple("a", "B"))
	assert.True(t, errors.Is(err, ErrDuplicateMission))
}

func TestRegistry_ReadOnly(t *testing.T) {
	r := Default()
	all := r.All()
	all[2].Additional.Start = "changed"
	all[0].Name = "changed"

	d, _ := r.Get("edit2-2")
	assert.Equal(t, "편집2-2_추가미션시작", d.Additional.Start)
	d, _ = r.Get("upload1")
	assert.NotEqual(t, "changed", d.Name)
}

func TestRegistry_Subset(t *testing.T) {
	sub, err := Default().Subset("memo3", "upload1")
	require.NoError(t, err)
	assert.Equal(t, []string{"upload1", "memo3"}, sub.IDs(), "registry order wins")

	_, err = Default().Subset("nope")
	assert.Error(t, err)
}

func TestDescriptor_Validate(t *testing.T) {
	stage := &Stage{Start: "s", Complete: "c"}

	cases := []struct {
		name string
		d    Descriptor
		ok   bool
	}{
		{"simple", simple("a", "A"), true},
		{"two-stage", func() Descriptor { d := simple("a", "A"); d.Additional = stage; return d }(), true},
		{"ab", Descriptor{ID: "m", Name: "m", ScreenPrefix: "M", VariantA: stage, VariantB: stage}, true},
		{"missing prefix", Descriptor{ID: "m", Name: "m", StartMarker: "s", CompleteMarker: "c"}, false},
		{"missing markers", Descriptor{ID: "m", Name: "m", ScreenPrefix: "M"}, false},
		{"one variant", Descriptor{ID: "m", Name: "m", ScreenPrefix: "M", VariantA: stage}, false},
		{"two-stage and ab", Descriptor{ID: "m", Name: "m", ScreenPrefix: "M", Additional: stage, VariantA: stage, VariantB: stage}, false},
		{"empty stage", func() Descriptor { d := simple("a", "A"); d.Additional = &Stage{}; return d }(), false},
		{"answer on ab", Descriptor{ID: "m", Name: "m", ScreenPrefix: "M", VariantA: stage, VariantB: stage, AnswerScreen: "x"}, false},
	}
	for _, tc := range cases {
		err := tc.d.Validate()
		if tc.ok {
			assert.NoError(t, err, tc.name)
		} else {
			assert.ErrorIs(t, err, ErrInvalidDescriptor, tc.name)
		}
	}
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "simple", ShapeSimple.String())
	assert.Equal(t, "two_stage", ShapeTwoStage.String())
	txt, err := ShapeAB.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ab", string(txt))
}

func TestRegistry_WriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().WriteYAML(&buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "missions:\n"))
	assert.Contains(t, out, "screen_prefix: 업로드1")
	assert.Contains(t, out, "answer_screen: 편집2-1_컷선택")
	assert.Contains(t, out, "variant_a:")
	assert.NotContains(t, out, "additional: null")

	var doc struct {
		Missions []Descriptor `yaml:"missions"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	again, err := NewRegistry(doc.Missions...)
	require.NoError(t, err)
	assert.Equal(t, Default().All(), again.All())
}
