package snfsapi

import (
	"context"
	"fmt"
	"net/http"
)

// ListReviews returns the reviews of a stock list together with the list.
// Reviews of non-public lists are only returned to users with access.
func (c *Client) ListReviews(ctx context.Context, listID, userID int) (*ListReviews, error) {
	params := map[string]string{"user_id": optionalUser(userID)}
	var out ListReviews
	path := fmt.Sprintf("/reviews/list/%d", listID)
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserReviews returns every review written by userID.
func (c *Client) UserReviews(ctx context.Context, userID int) ([]Review, error) {
	var out ReviewsResponse
	path := fmt.Sprintf("/reviews/user/%d", userID)
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

// AddReview posts a review on a list. A user can review each list once.
func (c *Client) AddReview(ctx context.Context, userID, listID int, content string) (*Review, error) {
	payload := map[string]any{"user_id": userID, "list_id": listID, "content": content}
	var out ReviewResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/reviews/add", payload, &out); err != nil {
		return nil, err
	}
	return &out.Review, nil
}

// UpdateReview replaces the content of a review the user wrote.
func (c *Client) UpdateReview(ctx context.Context, reviewID, userID int, content string) (*Review, error) {
	payload := map[string]any{"user_id": userID, "content": content}
	var out ReviewResponse
	path := fmt.Sprintf("/reviews/update/%d", reviewID)
	if err := c.sendJSON(ctx, http.MethodPut, path, payload, &out); err != nil {
		return nil, err
	}
	return &out.Review, nil
}

// DeleteReview deletes a review the user wrote.
func (c *Client) DeleteReview(ctx context.Context, reviewID, userID int) (string, error) {
	payload := map[string]int{"user_id": userID}
	var out MessageResponse
	path := fmt.Sprintf("/reviews/%d", reviewID)
	if err := c.sendJSON(ctx, http.MethodDelete, path, payload, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
