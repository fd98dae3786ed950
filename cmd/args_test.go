package cmd

import (
	"flag"
	"reflect"
	"testing"
)

func TestReorderArgs(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.String("year", "", "")
	fs.Bool("yes", false, "")
	fs.Bool("force", false, "")

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"data", "--year", "2020"}, []string{"--year", "2020", "data"}},
		{[]string{"--year", "2020", "data"}, []string{"--year", "2020", "data"}},
		// Bool flags never swallow the positional dir.
		{[]string{"--yes", "data"}, []string{"--yes", "data"}},
		{[]string{"-force", "out", "--year=2021"}, []string{"-force", "--year=2021", "out"}},
		{[]string{"--year", "2020", "--", "-odd-dir"}, []string{"--year", "2020", "-odd-dir"}},
		{nil, nil},
	}
	for _, tt := range tests {
		got := reorderArgs(fs, tt.args)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("reorderArgs(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestReorderArgsParses(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "")
	ff := addFilterFlags(fs)
	if err := fs.Parse(reorderArgs(fs, []string{"data", "--yes", "--age", "17-25", "--penalty", "fines"})); err != nil {
		t.Fatal(err)
	}
	if !*yes {
		t.Error("--yes not set")
	}
	if fs.Arg(0) != "data" {
		t.Errorf("positional = %q, want data", fs.Arg(0))
	}
	want := map[string]string{"age": "17-25", "penalty": "fines"}
	if got := ff.selections(); !reflect.DeepEqual(got, want) {
		t.Errorf("selections = %v, want %v", got, want)
	}
}
