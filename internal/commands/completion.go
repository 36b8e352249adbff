package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// CartIDCompleter returns a ShellCompleteFunc that suggests the IDs of
// products in the cart.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func CartIDCompleter(flags *Flags) cli.ShellCompleteFunc {
	return idCompleter(flags, func() []string {
		cart := flags.App.Store.State().Cart
		ids := make([]string, 0, len(cart))
		for _, item := range cart {
			ids = append(ids, item.ID)
		}
		return ids
	})
}

// WishlistIDCompleter returns a ShellCompleteFunc that suggests the IDs of
// wishlisted products.
func WishlistIDCompleter(flags *Flags) cli.ShellCompleteFunc {
	return idCompleter(flags, func() []string {
		wishlist := flags.App.Store.State().Wishlist
		ids := make([]string, 0, len(wishlist))
		for _, p := range wishlist {
			ids = append(ids, p.ID)
		}
		return ids
	})
}

func idCompleter(flags *Flags, ids func() []string) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if flags.App == nil {
			return
		}

		w := cmd.Root().Writer
		for _, id := range ids() {
			_, _ = fmt.Fprintln(w, id)
		}
	}
}
