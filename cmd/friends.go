package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/validate"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// newFriendsCmd creates the friends command with the given options.
func newFriendsCmd(opts *appOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "List and manage friends",
		Long: `List your friends or remove one.

Examples:
  snfs friends              # List friends
  snfs friends remove 12    # Remove user 12 from your friends`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFriendsList(cmd, opts)
		},
	}
	cmd.SilenceUsage = true

	removeCmd := &cobra.Command{
		Use:   "remove FRIEND_ID",
		Short: "Remove a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFriendRemove(cmd, opts, args[0])
		},
	}
	removeCmd.SilenceUsage = true
	cmd.AddCommand(removeCmd)

	return cmd
}

func runFriendsList(cmd *cobra.Command, opts *appOptions) error {
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	friends, err := opts.client.ListFriends(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch friends: %w", err)
	}

	f := opts.formatter(cmd)
	if len(friends) == 0 && !f.JSONMode {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "You have no friends yet. Send a request with 'snfs requests send USER_ID'.")
		return nil
	}

	return f.Table(friendHeaders, friendRows(friends))
}

var friendHeaders = []string{"Username", "User ID", "Friends Since"}

func friendRows(friends []snfsapi.Friend) [][]string {
	rows := make([][]string, 0, len(friends))
	for _, f := range friends {
		rows = append(rows, []string{
			f.Username,
			strconv.Itoa(f.FriendID),
			snfsapi.FormatDate(f.Since),
		})
	}
	return rows
}

func runFriendRemove(cmd *cobra.Command, opts *appOptions, arg string) error {
	friendID, err := validate.ID("friend", arg)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	msg, err := opts.client.RemoveFriend(ctx, userID, friendID)
	if err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	return opts.notice(cmd, output.LevelSuccess, messageOr(msg, "Friend removed"))
}

func init() {
	addAppCommand(newFriendsCmd)
}
