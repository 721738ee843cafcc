package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newRPNCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rpn [tokens...]",
		Short: "Evaluate a space-separated RPN sequence",
		Long: `Evaluate a space-separated RPN sequence such as "3 4 2 * +". Unary minus
is written u-. Put the tokens after -- so that negative numbers aren't read as
flags.`,
		Example: "  rpncalc rpn -- 2 -3 u- *",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				return errors.New("nothing to evaluate")
			}
			r, err := a.calc.EvaluateRPN(text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(r, 'g', -1, 64))
			return nil
		},
	}
}
