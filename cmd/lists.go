package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/validate"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// newListsCmd creates the lists command with the given options.
func newListsCmd(opts *appOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"stocklists"},
		Short:   "Browse and manage stock lists",
		Long: `Browse the stock lists you can see and manage your own.

Without a session only public lists are shown.

Examples:
  snfs lists                            # Lists you can access
  snfs lists --search tech              # Filter by name
  snfs lists mine                       # Lists you own
  snfs lists show 4                     # Items of list 4
  snfs lists create "Tech" --visibility public
  snfs lists add 4 AAPL 10
  snfs lists remove 4 AAPL
  snfs lists update 4 --name "Big Tech" --visibility shared
  snfs lists share 4 bob
  snfs lists delete 4
  snfs lists stats 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListsAccessible(cmd, opts, search)
		},
	}
	cmd.SilenceUsage = true
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter lists by name")

	subcommands := []*cobra.Command{
		{
			Use:   "mine",
			Short: "List the stock lists you own",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runListsMine(cmd, opts)
			},
		},
		{
			Use:   "show LIST_ID",
			Short: "Show a stock list and its items",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runListShow(cmd, opts, args[0])
			},
		},
		newListCreateCmd(opts),
		{
			Use:   "add LIST_ID SYMBOL SHARES",
			Short: "Add a stock to a list",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runListAdd(cmd, opts, args)
			},
		},
		{
			Use:   "remove LIST_ID SYMBOL",
			Short: "Remove a stock from a list",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runListRemove(cmd, opts, args[0], args[1])
			},
		},
		newListUpdateCmd(opts),
		{
			Use:   "delete LIST_ID",
			Short: "Delete a stock list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runListDelete(cmd, opts, args[0])
			},
		},
		{
			Use:   "share LIST_ID USERNAME",
			Short: "Share a list with a friend",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runListShare(cmd, opts, args[0], args[1])
			},
		},
		{
			Use:   "stats LIST_ID",
			Short: "Show return statistics and correlations for a list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runListStats(cmd, opts, args[0])
			},
		},
	}
	for _, c := range subcommands {
		c.SilenceUsage = true
		cmd.AddCommand(c)
	}

	return cmd
}

var stockListHeaders = []string{"ID", "Name", "Visibility", "Creator", "Access", "Stocks"}

func stockListRows(lists []snfsapi.StockList) [][]string {
	rows := make([][]string, 0, len(lists))
	for _, l := range lists {
		creator := l.CreatorName
		if creator == "" {
			creator = "-"
		}
		access := l.AccessType
		if access == "" {
			access = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(l.ListID),
			l.Name,
			l.Visibility,
			creator,
			access,
			strconv.Itoa(len(l.Items)),
		})
	}
	return rows
}

func runListsAccessible(cmd *cobra.Command, opts *appOptions, search string) error {
	ctx, cancel := opts.requestContext()
	defer cancel()

	lists, err := opts.client.AccessibleStockLists(ctx, opts.optionalUser(), strings.TrimSpace(search))
	if err != nil {
		return fmt.Errorf("failed to fetch stock lists: %w", err)
	}

	f := opts.formatter(cmd)
	if len(lists) == 0 && !f.JSONMode {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No stock lists found")
		return nil
	}
	return f.Table(stockListHeaders, stockListRows(lists))
}

func runListsMine(cmd *cobra.Command, opts *appOptions) error {
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	lists, err := opts.client.MyStockLists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch stock lists: %w", err)
	}

	f := opts.formatter(cmd)
	if len(lists) == 0 && !f.JSONMode {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "You have no stock lists. Create one with 'snfs lists create NAME'.")
		return nil
	}
	return f.Table(stockListHeaders, stockListRows(lists))
}

var stockListItemHeaders = []string{"Symbol", "Company", "Shares"}

func stockListItemRows(items []snfsapi.StockListItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Symbol, it.CompanyName, snfsapi.FormatShares(it.NumShares)})
	}
	return rows
}

func runListShow(cmd *cobra.Command, opts *appOptions, arg string) error {
	listID, err := validate.ID("list", arg)
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	list, err := opts.client.GetStockList(ctx, listID, opts.optionalUser())
	if err != nil {
		return fmt.Errorf("failed to fetch stock list: %w", err)
	}

	f := opts.formatter(cmd)
	if f.JSONMode {
		return f.Print(list)
	}

	pairs := [][2]string{
		{"List", fmt.Sprintf("%s (ID %d)", list.Name, list.ListID)},
		{"Visibility", list.Visibility},
	}
	if list.CreatorName != "" {
		pairs = append(pairs, [2]string{"Creator", list.CreatorName})
	}
	if err := f.KeyValues(pairs); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	if len(list.Items) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "This list has no stocks")
		return nil
	}
	return f.Table(stockListItemHeaders, stockListItemRows(list.Items))
}

func newListCreateCmd(opts *appOptions) *cobra.Command {
	var visibility string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a stock list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := validate.StockListName(args[0])
			if err != nil {
				return err
			}
			if err := validate.Visibility(visibility); err != nil {
				return err
			}
			userID, err := opts.requireUser()
			if err != nil {
				return err
			}

			ctx, cancel := opts.requestContext()
			defer cancel()

			list, err := opts.client.CreateStockList(ctx, userID, name, visibility)
			if err != nil {
				return fmt.Errorf("failed to create stock list: %w", err)
			}
			return opts.notice(cmd, output.LevelSuccess, fmt.Sprintf("Created stock list %q (ID %d)", list.Name, list.ListID))
		},
	}

	cmd.Flags().StringVar(&visibility, "visibility", snfsapi.VisibilityPrivate, "private, shared or public")
	return cmd
}

func runListAdd(cmd *cobra.Command, opts *appOptions, args []string) error {
	listID, err := validate.ID("list", args[0])
	if err != nil {
		return err
	}
	symbol := strings.ToUpper(strings.TrimSpace(args[1]))
	if symbol == "" {
		return &validate.Error{Fields: map[string]string{"symbol": "symbol is required"}}
	}
	shares, err := validate.Shares(args[2])
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	item, err := opts.client.AddStockListItem(ctx, listID, userID, symbol, shares)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", symbol, err)
	}
	return opts.notice(cmd, output.LevelSuccess, fmt.Sprintf("Added %s shares of %s to list %d", snfsapi.FormatShares(item.NumShares), item.Symbol, listID))
}

func runListRemove(cmd *cobra.Command, opts *appOptions, idArg, symbol string) error {
	listID, err := validate.ID("list", idArg)
	if err != nil {
		return err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return &validate.Error{Fields: map[string]string{"symbol": "symbol is required"}}
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	msg, err := opts.client.RemoveStockListItem(ctx, listID, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", symbol, err)
	}
	return opts.notice(cmd, output.LevelSuccess, messageOr(msg, fmt.Sprintf("Removed %s", symbol)))
}

func newListUpdateCmd(opts *appOptions) *cobra.Command {
	var name, visibility string

	cmd := &cobra.Command{
		Use:   "update LIST_ID",
		Short: "Rename a list or change its visibility",
		Long: `Rename a list or change its visibility. Flags that are not given keep
their current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListUpdate(cmd, opts, args[0], name, visibility)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New list name")
	cmd.Flags().StringVar(&visibility, "visibility", "", "private, shared or public")
	return cmd
}

func runListUpdate(cmd *cobra.Command, opts *appOptions, idArg, name, visibility string) error {
	listID, err := validate.ID("list", idArg)
	if err != nil {
		return err
	}
	if name == "" && visibility == "" {
		return &validate.Error{Fields: map[string]string{"name": "nothing to update: pass --name or --visibility"}}
	}
	if visibility != "" {
		if err := validate.Visibility(visibility); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("name") {
		if name, err = validate.StockListName(name); err != nil {
			return err
		}
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	if name == "" || visibility == "" {
		current, err := opts.client.GetStockList(ctx, listID, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch stock list: %w", err)
		}
		if !current.OwnedBy(userID) {
			return fmt.Errorf("you can only edit your own stock lists")
		}
		if name == "" {
			name = current.Name
		}
		if visibility == "" {
			visibility = current.Visibility
		}
	}

	resp, err := opts.client.UpdateStockList(ctx, listID, userID, name, visibility)
	if err != nil {
		return fmt.Errorf("failed to update stock list: %w", err)
	}
	return opts.notice(cmd, output.LevelSuccess, messageOr(resp.Message, "Stock list updated"))
}

func runListDelete(cmd *cobra.Command, opts *appOptions, arg string) error {
	listID, err := validate.ID("list", arg)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	msg, err := opts.client.DeleteStockList(ctx, listID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete stock list: %w", err)
	}
	return opts.notice(cmd, output.LevelSuccess, messageOr(msg, "Stock list deleted"))
}

func runListShare(cmd *cobra.Command, opts *appOptions, idArg, username string) error {
	listID, err := validate.ID("list", idArg)
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return &validate.Error{Fields: map[string]string{"username": "username is required"}}
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	msg, err := opts.client.ShareStockList(ctx, userID, listID, username)
	if err != nil {
		return fmt.Errorf("failed to share stock list: %w", err)
	}
	return opts.notice(cmd, output.LevelSuccess, messageOr(msg, fmt.Sprintf("Shared with %s", username)))
}

func runListStats(cmd *cobra.Command, opts *appOptions, arg string) error {
	listID, err := validate.ID("list", arg)
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	stats, err := opts.client.StockListStatistics(ctx, listID, opts.optionalUser())
	if err != nil {
		return fmt.Errorf("failed to fetch statistics: %w", err)
	}
	return renderStatistics(cmd, opts, stats, false)
}

func init() {
	addAppCommand(newListsCmd)
}
