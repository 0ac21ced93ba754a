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

// reviewPreviewLength is how much of a review fits in a table cell.
const reviewPreviewLength = 60

// newReviewsCmd creates the reviews command with the given options.
func newReviewsCmd(opts *appOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write stock list reviews",
		Long: `Read the reviews of a stock list and manage your own.

Examples:
  snfs reviews list 4              # Reviews of list 4
  snfs reviews list 4 --full       # Render each review in full
  snfs reviews mine                # Reviews you wrote
  snfs reviews user 7              # Reviews user 7 wrote
  snfs reviews add 4 "Solid picks"
  snfs reviews edit 12 "Updated thoughts"
  snfs reviews delete 12`,
	}
	cmd.SilenceUsage = true

	subcommands := []*cobra.Command{
		newReviewsListCmd(opts),
		{
			Use:   "mine",
			Short: "List the reviews you wrote",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				userID, err := opts.requireUser()
				if err != nil {
					return err
				}
				return runUserReviews(cmd, opts, userID)
			},
		},
		{
			Use:   "user USER_ID",
			Short: "List the reviews a user wrote",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				userID, err := validate.ID("user", args[0])
				if err != nil {
					return err
				}
				return runUserReviews(cmd, opts, userID)
			},
		},
		{
			Use:   "add LIST_ID CONTENT",
			Short: "Review a stock list",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runReviewAdd(cmd, opts, args[0], args[1])
			},
		},
		{
			Use:   "edit REVIEW_ID CONTENT",
			Short: "Edit one of your reviews",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runReviewEdit(cmd, opts, args[0], args[1])
			},
		},
		{
			Use:   "delete REVIEW_ID",
			Short: "Delete one of your reviews",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runReviewDelete(cmd, opts, args[0])
			},
		},
	}
	for _, c := range subcommands {
		c.SilenceUsage = true
		cmd.AddCommand(c)
	}

	return cmd
}

// preview shortens review content to a single table-friendly line.
func preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= reviewPreviewLength {
		return content
	}
	return string(runes[:reviewPreviewLength-3]) + "..."
}

func newReviewsListCmd(opts *appOptions) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "list LIST_ID",
		Short: "List the reviews of a stock list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListReviews(cmd, opts, args[0], full)
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Render every review in full")
	return cmd
}

var listReviewHeaders = []string{"ID", "Author", "Date", "Review"}

func listReviewRows(reviews []snfsapi.Review) [][]string {
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		rows = append(rows, []string{
			strconv.Itoa(r.ReviewID),
			r.Username,
			snfsapi.FormatTimestamp(r.Timestamp),
			preview(r.Content),
		})
	}
	return rows
}

func runListReviews(cmd *cobra.Command, opts *appOptions, arg string, full bool) error {
	listID, err := validate.ID("list", arg)
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	resp, err := opts.client.ListReviews(ctx, listID, opts.optionalUser())
	if err != nil {
		return fmt.Errorf("failed to fetch reviews: %w", err)
	}

	f := opts.formatter(cmd)
	if f.JSONMode {
		return f.Print(resp)
	}

	out := cmd.OutOrStdout()
	if resp.StockList != nil {
		_, _ = fmt.Fprintf(out, "Reviews of %q (%s)\n\n", resp.StockList.Name, resp.StockList.Visibility)
	}

	if len(resp.Reviews) == 0 {
		_, _ = fmt.Fprintln(out, "No reviews yet")
		return nil
	}

	if !full {
		return f.Table(listReviewHeaders, listReviewRows(resp.Reviews))
	}

	for _, r := range resp.Reviews {
		_, _ = fmt.Fprintf(out, "#%d by %s on %s\n", r.ReviewID, r.Username, snfsapi.FormatTimestamp(r.Timestamp))
		if err := f.Markdown(r.Content); err != nil {
			return err
		}
	}
	return nil
}

var userReviewHeaders = []string{"ID", "List", "Visibility", "Creator", "Date", "Review"}

func userReviewRows(reviews []snfsapi.Review) [][]string {
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		list := r.ListName
		if list == "" {
			list = strconv.Itoa(r.ListID)
		}
		rows = append(rows, []string{
			strconv.Itoa(r.ReviewID),
			list,
			r.Visibility,
			r.CreatorName,
			snfsapi.FormatTimestamp(r.Timestamp),
			preview(r.Content),
		})
	}
	return rows
}

func runUserReviews(cmd *cobra.Command, opts *appOptions, userID int) error {
	ctx, cancel := opts.requestContext()
	defer cancel()

	reviews, err := opts.client.UserReviews(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch reviews: %w", err)
	}

	f := opts.formatter(cmd)
	if len(reviews) == 0 && !f.JSONMode {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No reviews")
		return nil
	}
	return f.Table(userReviewHeaders, userReviewRows(reviews))
}

func runReviewAdd(cmd *cobra.Command, opts *appOptions, idArg, content string) error {
	listID, err := validate.ID("list", idArg)
	if err != nil {
		return err
	}
	content, err = validate.ReviewContent(content)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	// Only users allowed to review a list can read its reviews
	existing, err := opts.client.ListReviews(ctx, listID, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch stock list: %w", err)
	}
	name := fmt.Sprintf("list %d", listID)
	if existing.StockList != nil && existing.StockList.Name != "" {
		name = existing.StockList.Name
	}
	opts.log().Debug("stock list found", "list_id", listID, "name", name, "reviews", len(existing.Reviews))

	review, err := opts.client.AddReview(ctx, userID, listID, content)
	if err != nil {
		return fmt.Errorf("failed to submit review: %w", err)
	}
	return opts.notice(cmd, output.LevelSuccess, fmt.Sprintf("Review %d submitted for %q", review.ReviewID, name))
}

func runReviewEdit(cmd *cobra.Command, opts *appOptions, idArg, content string) error {
	reviewID, err := validate.ID("review", idArg)
	if err != nil {
		return err
	}
	content, err = validate.ReviewContent(content)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	if _, err := opts.client.UpdateReview(ctx, reviewID, userID, content); err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return opts.notice(cmd, output.LevelSuccess, "Review updated successfully")
}

func runReviewDelete(cmd *cobra.Command, opts *appOptions, arg string) error {
	reviewID, err := validate.ID("review", arg)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	msg, err := opts.client.DeleteReview(ctx, reviewID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return opts.notice(cmd, output.LevelSuccess, messageOr(msg, "Review deleted"))
}

func init() {
	addAppCommand(newReviewsCmd)
}
