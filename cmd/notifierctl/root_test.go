package main

import (
	"io"
	"strings"
	"testing"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"verify-workbook", "split-workbook", "fill-catalog", "prospect", "replay"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered (%v)", name, err)
		}
	}
}

func TestArgumentValidation(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"fill-catalog", "shoes"}, "invalid CATEGORY_ID"},
		{[]string{"split-workbook", "a.xlsx"}, "accepts 3 arg(s)"},
		{[]string{"replay"}, "accepts 1 arg(s)"},
	}

	for _, tt := range tests {
		root := newRootCmd()
		root.SetArgs(tt.args)
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)

		err := root.Execute()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%v: expected error containing %q, got %v", tt.args, tt.want, err)
		}
	}
}
