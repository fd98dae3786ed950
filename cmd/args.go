package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/zalepa/roadpenalties/penalty"
)

// reorderArgs moves positional arguments to the end so that Go's flag package
// can parse all flags regardless of where a positional dir argument appears.
// Boolean flags registered on fs never consume the following argument.
func reorderArgs(fs *flag.FlagSet, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			if isBoolFlag(fs, args[i]) || strings.Contains(args[i], "=") {
				continue
			}
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				flags = append(flags, args[i+1])
				i++
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}

func isBoolFlag(fs *flag.FlagSet, arg string) bool {
	name := strings.TrimLeft(arg, "-")
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// filterFlags holds one string flag per dropdown.
type filterFlags map[string]*string

// addFilterFlags registers -year, -metric, -method, -age, -jurisdiction and
// -penalty on fs.
func addFilterFlags(fs *flag.FlagSet) filterFlags {
	ff := make(filterFlags)
	for _, d := range penalty.Dimensions {
		ff[string(d)] = fs.String(string(d), penalty.All, fmt.Sprintf("%s filter", d))
	}
	ff["penalty"] = fs.String("penalty", "total", "penalty type: total, fines, charges, arrests")
	return ff
}

// selections returns the flag values as dropdown selections, omitting All.
func (ff filterFlags) selections() map[string]string {
	out := make(map[string]string, len(ff))
	for k, v := range ff {
		if *v != "" && *v != penalty.All {
			out[k] = *v
		}
	}
	return out
}

const filterUsage = `
Filters (default All): -year, -metric, -method, -age, -jurisdiction
Penalty type:          -penalty total|fines|charges|arrests
`
