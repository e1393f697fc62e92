package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine_QuoteEscaping(t *testing.T) {
	fields := SplitLine(`"a,b","c""d"`)
	assert.Equal(t, []string{"a,b", `c"d`}, fields)
}

func TestSplitLine_TrimsFields(t *testing.T) {
	fields := SplitLine(`  u1 , 화면 진입 ,, "  x " `)
	assert.Equal(t, []string{"u1", "화면 진입", "", "x"}, fields)
}

func TestSplitLine_QuoteMidField(t *testing.T) {
	// A quote toggles quoted mode wherever it appears.
	fields := SplitLine(`ab"c,d"e,f`)
	assert.Equal(t, []string{"abc,de", "f"}, fields)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "\n\n", "   \n \t\n"} {
		tbl := Parse(in)
		assert.False(t, tbl.HasHeader(), "input %q", in)
		assert.True(t, tbl.Empty())
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	tbl := Parse("header_only_line\n")
	assert.True(t, tbl.HasHeader())
	assert.True(t, tbl.Empty())
	assert.Equal(t, []string{"header_only_line"}, tbl.Header)
}

func TestParse_ShortRowsArePadded(t *testing.T) {
	tbl := Parse("사용자ID,화면,이벤트,값\nu1,홈\n")
	require.Equal(t, 1, tbl.Len())

	rec := tbl.Records[0]
	assert.Len(t, rec, 4)
	assert.Equal(t, "u1", rec["사용자ID"])
	assert.Equal(t, "홈", rec["화면"])
	assert.Equal(t, "", rec["이벤트"])
	assert.Equal(t, "", rec["값"])
}

func TestParse_ExtraFieldsIgnored(t *testing.T) {
	tbl := Parse("a,b\n1,2,3\n")
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, Record{"a": "1", "b": "2"}, tbl.Records[0])
}

func TestParse_SkipsBlankLinesAndCRLF(t *testing.T) {
	tbl := Parse("a,b\r\n\r\n1,2\r\n   \n3,4\r\n")
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"a", "b"}, tbl.Header)
	assert.Equal(t, "2", tbl.Records[0]["b"])
	assert.Equal(t, "4", tbl.Records[1]["b"])
}

func TestParse_StripsBOM(t *testing.T) {
	tbl := Parse("\ufeff사용자ID,화면\nu1,홈")
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "u1", tbl.Records[0]["사용자ID"])
}

func TestParse_QuotedValuePayload(t *testing.T) {
	text := "사용자ID,값\n" + `u1,"완료시간:4.2초 {""expected"":true}"`
	tbl := Parse(text)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, `완료시간:4.2초 {"expected":true}`, tbl.Records[0]["값"])
}

func TestParse_RoundTrip(t *testing.T) {
	header := []string{"사용자ID", "화면", "이벤트", "대상", "값"}
	rows := [][]string{
		{"u1", "편집2-1_화면", "화면 진입", "편집2-1_화면", ""},
		{"u2", "메모3_화면", "버튼 클릭", "저장", "완료시간:3초"},
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(header, ",") + "\n")
	for _, r := range rows {
		sb.WriteString(strings.Join(r, ",") + "\n")
	}

	tbl := Parse(sb.String())
	require.Equal(t, len(rows), tbl.Len())
	for i, r := range rows {
		for j, h := range header {
			assert.Equal(t, r[j], tbl.Records[i][h])
		}
	}
}
