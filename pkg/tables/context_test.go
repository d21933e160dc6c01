package tables

import (
	"strings"
	"testing"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

func TestEnhanceFindsCaption(t *testing.T) {
	pages := []model.PageText{
		{Page: 3, Text: "Some introduction paragraph about routing.\n\nTable 2: Routing protocols compared\n\n42"},
	}
	tables := []model.LogicalTable{
		{PageStart: 3, PageEnd: 3, ColumnCount: 2},
	}

	enhanced := New(Config{}).Enhance(tables, pages)

	if enhanced[0].Caption != "Table 2: Routing protocols compared" {
		t.Errorf("Caption = %q", enhanced[0].Caption)
	}
}

func TestEnhanceCaptionPriorityOrder(t *testing.T) {
	// Both a Figure and a Table caption are present; the Table pattern has
	// higher priority regardless of position in the text.
	pages := []model.PageText{
		{Page: 1, Text: "Figure 9: A diagram\n\nTable 1: The real caption\n\nbody"},
	}
	tables := []model.LogicalTable{{PageStart: 1, PageEnd: 1}}

	enhanced := New(Config{}).Enhance(tables, pages)
	if enhanced[0].Caption != "Table 1: The real caption" {
		t.Errorf("Caption = %q, want the Table pattern to win", enhanced[0].Caption)
	}
}

func TestEnhanceChineseCaption(t *testing.T) {
	pages := []model.PageText{
		{Page: 2, Text: "前文说明段落,内容足够长以便提取。\n\n表3：网络协议对照"},
	}
	tables := []model.LogicalTable{{PageStart: 2, PageEnd: 2}}

	enhanced := New(Config{}).Enhance(tables, pages)
	if enhanced[0].Caption != "表3：网络协议对照" {
		t.Errorf("Caption = %q", enhanced[0].Caption)
	}
}

func TestEnhanceSynthesizesCaption(t *testing.T) {
	pages := []model.PageText{
		{Page: 7, Text: "A paragraph without any caption markers, long enough to count."},
	}
	tables := []model.LogicalTable{
		{PageStart: 7, PageEnd: 8},
		{PageStart: 7, PageEnd: 7},
	}

	enhanced := New(Config{}).Enhance(tables, pages)

	if enhanced[0].Caption != "Table 1 (Page 7)" {
		t.Errorf("Caption = %q, want synthesized ordinal caption", enhanced[0].Caption)
	}
	if enhanced[1].Caption != "Table 2 (Page 7)" {
		t.Errorf("Caption = %q", enhanced[1].Caption)
	}
}

func TestEnhanceContextSkipsShortAndNumeric(t *testing.T) {
	pages := []model.PageText{
		{Page: 1, Text: "This paragraph describes the measurement setup in enough detail.\n\n12345678901234567890123\n\nshort"},
	}
	tables := []model.LogicalTable{{PageStart: 1, PageEnd: 1}}

	enhanced := New(Config{}).Enhance(tables, pages)

	want := "This paragraph describes the measurement setup in enough detail."
	if enhanced[0].Context != want {
		t.Errorf("Context = %q, want %q", enhanced[0].Context, want)
	}
}

func TestEnhanceContextBounded(t *testing.T) {
	long := strings.Repeat("measurement data and methodology ", 20)
	pages := []model.PageText{{Page: 1, Text: long}}
	tables := []model.LogicalTable{{PageStart: 1, PageEnd: 1}}

	enhanced := New(Config{}).Enhance(tables, pages)

	ctx := enhanced[0].Context
	if !strings.HasSuffix(ctx, "...") {
		t.Errorf("long context should be truncated with ellipsis: %q", ctx)
	}
	if len(ctx) > 203 {
		t.Errorf("context length %d exceeds bound", len(ctx))
	}
}

func TestEnhanceMissingPageText(t *testing.T) {
	// A table whose page was dropped by the noise filter still gets a
	// synthesized caption and empty context.
	tables := []model.LogicalTable{{PageStart: 9, PageEnd: 9}}

	enhanced := New(Config{}).Enhance(tables, nil)

	if enhanced[0].Caption != "Table 1 (Page 9)" {
		t.Errorf("Caption = %q", enhanced[0].Caption)
	}
	if enhanced[0].Context != "" {
		t.Errorf("Context = %q, want empty", enhanced[0].Context)
	}
}
