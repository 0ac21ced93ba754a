package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/validate"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// newRequestsCmd creates the requests command with the given options.
func newRequestsCmd(opts *appOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Friend requests",
		Long: `List friend requests you have received, send new ones and answer them.

Examples:
  snfs requests              # List received requests
  snfs requests send 12      # Ask user 12 to be your friend
  snfs requests accept 5     # Accept request 5
  snfs requests reject 5     # Reject request 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestsList(cmd, opts)
		},
	}
	cmd.SilenceUsage = true

	sendCmd := &cobra.Command{
		Use:   "send USER_ID",
		Short: "Send a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestSend(cmd, opts, args[0])
		},
	}
	acceptCmd := &cobra.Command{
		Use:   "accept REQUEST_ID",
		Short: "Accept a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestResolve(cmd, opts, args[0], true)
		},
	}
	rejectCmd := &cobra.Command{
		Use:   "reject REQUEST_ID",
		Short: "Reject a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestResolve(cmd, opts, args[0], false)
		},
	}
	for _, c := range []*cobra.Command{sendCmd, acceptCmd, rejectCmd} {
		c.SilenceUsage = true
		cmd.AddCommand(c)
	}

	return cmd
}

func runRequestsList(cmd *cobra.Command, opts *appOptions) error {
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	requests, err := opts.client.ListFriendRequests(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch friend requests: %w", err)
	}

	f := opts.formatter(cmd)
	if len(requests) == 0 && !f.JSONMode {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No friend requests")
		return nil
	}

	return f.Table(requestHeaders, requestRows(requests))
}

var requestHeaders = []string{"Request ID", "From", "User ID", "Status", "Sent"}

func requestRows(requests []snfsapi.FriendRequest) [][]string {
	rows := make([][]string, 0, len(requests))
	for _, r := range requests {
		from := r.SenderName()
		if from == "" {
			from = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(r.RequestID),
			from,
			strconv.Itoa(r.SenderID()),
			r.Status,
			snfsapi.FormatTimestamp(r.Timestamp),
		})
	}
	return rows
}

func runRequestSend(cmd *cobra.Command, opts *appOptions, arg string) error {
	receiverID, err := validate.ID("user", arg)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}
	if receiverID == userID {
		return &validate.Error{Fields: map[string]string{"user": "cannot send a friend request to yourself"}}
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	resp, err := opts.client.SendFriendRequest(ctx, userID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to send friend request: %w", err)
	}
	return opts.notice(cmd, output.LevelSuccess, messageOr(resp.Message, "Friend request sent"))
}

func runRequestResolve(cmd *cobra.Command, opts *appOptions, arg string, accept bool) error {
	requestID, err := validate.ID("request", arg)
	if err != nil {
		return err
	}
	if _, err := opts.requireUser(); err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	var resp *snfsapi.FriendRequestResponse
	if accept {
		resp, err = opts.client.AcceptFriendRequest(ctx, requestID)
	} else {
		resp, err = opts.client.RejectFriendRequest(ctx, requestID)
	}
	if err != nil {
		return fmt.Errorf("failed to answer friend request: %w", err)
	}

	fallback := "Friend request rejected"
	if accept {
		fallback = "Friend request accepted"
	}
	return opts.notice(cmd, output.LevelSuccess, messageOr(resp.Message, fallback))
}

func init() {
	addAppCommand(newRequestsCmd)
}
