package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dmarsters/slapstick-enhancer/display"
	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/version"
)

func newVersionCmd() *cobra.Command {
	var require string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version, build time, commit hash and platform of the binary.

--require checks the version against a semver constraint and fails when it
is not met, for scripts that need a minimum release:

  slapstick version --require '>= 0.3'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if require != "" {
				ok, err := info.Satisfies(require)
				if err != nil {
					return err
				}
				if !ok {
					return errors.Newf("version %s does not satisfy %q", info.Version, require)
				}
			}
			return emit(cmd, info, func(w io.Writer) error {
				return display.KeyValues(w, [][2]string{
					{"version", info.String()},
					{"platform", info.Platform},
					{"go", info.GoVersion},
				})
			})
		},
	}
	cmd.Flags().StringVar(&require, "require", "", "Fail unless the version satisfies this constraint")
	return cmd
}
