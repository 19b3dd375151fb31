package commands

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmarsters/slapstick-enhancer/enhancer"
	"github.com/dmarsters/slapstick-enhancer/olog"
	"github.com/dmarsters/slapstick-enhancer/sym"
)

const mapLong = sym.Map + ` map - enhance a prompt from categorical intent

Builds a parameter profile from subject, tone, priorities and intensity,
then renders the enhanced and negative prompts around --prompt.

The intent can be given as flags or as a single expression:

  slapstick map --subject architecture --tone tense \
                --priority suspense --priority physics --intensity strong
  slapstick map --expr 'subject=architecture tone=tense priorities=suspense,physics intensity=strong'

--explain prints the vector after every build stage.`

type mapOutput struct {
	enhancer.Enhancement
	Trace *olog.BuildTrace `json:"trace,omitempty"`
}

func newMapCmd() *cobra.Command {
	var (
		taxonomy   string
		subject    string
		tone       string
		priorities []string
		intensity  string
		expr       string
		prompt     string
		explain    bool
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: sym.Map + " Enhance a prompt from subject, tone, priorities and intensity",
		Long:  mapLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			intent := olog.Intent{
				Subject:    olog.Tag(subject),
				Tone:       olog.Tag(tone),
				Priorities: olog.Tags(priorities...),
				Intensity:  olog.Tag(intensity),
			}
			if expr != "" {
				parsed, err := enhancer.ParseIntent(expr)
				if err != nil {
					return err
				}
				intent = parsed.Intent
				if parsed.Taxonomy != "" && !cmd.Flags().Changed("taxonomy") {
					taxonomy = parsed.Taxonomy
				}
			}

			out := mapOutput{}
			if explain {
				p, trace, err := svc.Trace(taxonomy, intent)
				if err != nil {
					return err
				}
				out.Trace = &trace
				e, err := svc.EnhanceProfile(taxonomy, prompt, p)
				if err != nil {
					return err
				}
				e.Summary = enhancer.Summary(intent)
				out.Enhancement = e
			} else {
				out.Enhancement, err = svc.Enhance(taxonomy, prompt, intent)
				if err != nil {
					return err
				}
			}

			return emit(cmd, out, func(w io.Writer) error {
				if err := printEnhancement(w, out.Enhancement); err != nil {
					return err
				}
				if out.Trace == nil {
					return nil
				}
				return printTrace(w, out.Parameters, *out.Trace)
			})
		},
	}

	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Taxonomy to map into (default slapstick)")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject tag")
	cmd.Flags().StringVar(&tone, "tone", "", "Emotional tone tag")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "Visual priority tag (repeatable)")
	cmd.Flags().StringVar(&intensity, "intensity", "", "Intensity tag")
	cmd.Flags().StringVarP(&expr, "expr", "e", "", "Intent expression (key=value pairs)")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Base prompt to enhance")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show the vector after each build stage")
	cmd.MarkFlagsMutuallyExclusive("expr", "subject")
	cmd.MarkFlagsMutuallyExclusive("expr", "tone")
	cmd.MarkFlagsMutuallyExclusive("expr", "priority")
	cmd.MarkFlagsMutuallyExclusive("expr", "intensity")
	return cmd
}

func newExplicitCmd() *cobra.Command {
	var (
		taxonomy string
		prompt   string
	)

	cmd := &cobra.Command{
		Use:   "explicit <dimension=value>...",
		Short: sym.Explicit + " Enhance a prompt from explicit dimension values",
		Long: sym.Explicit + ` explicit - enhance a prompt from explicit dimension values

Every dimension of the taxonomy must be given, each in [0,10]. Values are
validated, never clamped.

  slapstick explicit exaggeration=8 timing=6 physical=7 ruleOfThree=5 readability=7 tension=4 \
                     --prompt "a waiter with a tray"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			p, err := svc.BuildFromExplicitProfile(taxonomy, values)
			if err != nil {
				return err
			}
			e, err := svc.EnhanceProfile(taxonomy, prompt, p)
			if err != nil {
				return err
			}
			return emit(cmd, e, func(w io.Writer) error {
				return printEnhancement(w, e)
			})
		},
	}

	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Taxonomy of the dimensions (default slapstick)")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Base prompt to enhance")
	return cmd
}

// parseAssignments reads dimension=value arguments.
func parseAssignments(args []string) (map[string]int, error) {
	values := make(map[string]int, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, &olog.ValidationError{Field: "parameters", Reason: "expected dimension=value, got " + arg}
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &olog.ValidationError{Field: key, Reason: strconv.Quote(raw) + " is not an integer"}
		}
		values[strings.TrimSpace(key)] = n
	}
	return values, nil
}

func newRenderCmd() *cobra.Command {
	var (
		taxonomy string
		prompt   string
	)

	cmd := &cobra.Command{
		Use:   "render <profile-code>",
		Short: sym.Render + " Render the prompts of an encoded profile",
		Long: sym.Render + ` render - render the prompts of an encoded profile

Profile codes are printed by map and explicit. The code records its taxonomy,
so --taxonomy only guards against rendering a code from the wrong one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			p, err := svc.DecodeProfile(taxonomy, args[0])
			if err != nil {
				return err
			}
			e, err := svc.EnhanceProfile(p.Taxonomy(), prompt, p)
			if err != nil {
				return err
			}
			return emit(cmd, e, func(w io.Writer) error {
				return printEnhancement(w, e)
			})
		},
	}

	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Expected taxonomy of the code")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Base prompt to enhance")
	return cmd
}

type describeOutput struct {
	Taxonomy     string            `json:"taxonomy"`
	Parameters   olog.Profile      `json:"parameters"`
	Descriptions map[string]string `json:"descriptions"`
}

func newDescribeCmd() *cobra.Command {
	var taxonomy string

	cmd := &cobra.Command{
		Use:   "describe <profile-code>",
		Short: sym.Describe + " Show the fragment chosen for each dimension of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			p, err := svc.DecodeProfile(taxonomy, args[0])
			if err != nil {
				return err
			}
			desc, err := svc.DescribeProfile(p.Taxonomy(), p)
			if err != nil {
				return err
			}
			out := describeOutput{Taxonomy: p.Taxonomy(), Parameters: p, Descriptions: desc}
			return emit(cmd, out, func(w io.Writer) error {
				return printDescription(w, p, desc)
			})
		},
	}

	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Expected taxonomy of the code")
	return cmd
}
