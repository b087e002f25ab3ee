package config

import (
	"flag"
	"fmt"

	"github.com/agbru/picalc/internal/ui"
)

// setCustomUsage installs a themed usage printer on fs.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		t := ui.NoColorTheme
		if ui.ColorsEnabled(false) {
			t = ui.GetCurrentTheme()
		}
		out := fs.Output()

		fmt.Fprintf(out, "\n%sPi Calculator%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Computes decimal digits of π with the Chudnovsky series.\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags]\n\n%sFlags:%s\n", t.Warning, t.Reset, fs.Name(), t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			sig := "-" + f.Name
			if name != "" {
				sig += " " + name
			}
			fmt.Fprintf(out, "  %s%-25s%s %s", t.Primary, sig, t.Reset, usage)
			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintf(out, "\nEvery flag can also be set through a %s<NAME> environment variable.\n\n", EnvPrefix)
	}
}
