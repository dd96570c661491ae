package app

import (
	"errors"
	"fmt"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"nlparsers/nlp/types"
)

func InspectCategories(cmd *commander.Command, args []string) error {
	if len(args) == 0 {
		cmd.Usage()
		return errors.New("no categories given")
	}
	categories := make([]*types.Category, len(args))
	for i, arg := range args {
		cat, err := types.ParseCategory(arg)
		if err != nil {
			return fmt.Errorf("category %d: %v", i+1, err)
		}
		categories[i] = cat
		fmt.Printf("%s\t(arity %d, target %s)\n", cat, cat.Arity(), cat.Target())
	}
	if len(categories) == 2 {
		bind := make(types.Bindings)
		unified, err := types.Unify(categories[0], categories[1], bind)
		if err != nil {
			fmt.Println("unify:", err)
			return nil
		}
		fmt.Println("unify:", unified.Substitute(bind))
	}
	return nil
}

func CatCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       InspectCategories,
		UsageLine: "cat [arguments]",
		Short:     "inspects category notation",
		Long: `
parses category expressions, prints them back and, given exactly two,
attempts unification

	$ ./nlparsers cat "S[num=?1]\NP[num=?1]" "S\NP[num=sg]"

`,
		Flag: *flag.NewFlagSet("cat", flag.ExitOnError),
	}
	return cmd
}
