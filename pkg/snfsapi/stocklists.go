package snfsapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// optionalUser renders userID as a query value. Zero means an anonymous
// caller, which only sees public lists.
func optionalUser(userID int) string {
	if userID <= 0 {
		return ""
	}
	return strconv.Itoa(userID)
}

// CreateStockList creates an empty stock list owned by userID.
func (c *Client) CreateStockList(ctx context.Context, userID int, name, visibility string) (*StockList, error) {
	payload := map[string]any{"user_id": userID, "name": name, "visibility": visibility}
	var out StockListResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/stocklists/create", payload, &out); err != nil {
		return nil, err
	}
	return &out.StockList, nil
}

// AddStockListItem adds shares of symbol to a list the user owns.
func (c *Client) AddStockListItem(ctx context.Context, listID, userID int, symbol string, shares int64) (*StockListItem, error) {
	payload := map[string]any{
		"list_id":    listID,
		"user_id":    userID,
		"symbol":     strings.ToUpper(symbol),
		"num_shares": shares,
	}
	var out StockListItemResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/stocklists/add_item", payload, &out); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

// RemoveStockListItem removes symbol from a list the user owns.
func (c *Client) RemoveStockListItem(ctx context.Context, listID, userID int, symbol string) (string, error) {
	payload := map[string]any{"list_id": listID, "user_id": userID, "symbol": strings.ToUpper(symbol)}
	var out MessageResponse
	if err := c.sendJSON(ctx, http.MethodDelete, "/stocklists/remove_item", payload, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// UpdateStockList renames a list and changes its visibility.
func (c *Client) UpdateStockList(ctx context.Context, listID, userID int, name, visibility string) (*StockListResponse, error) {
	payload := map[string]any{"user_id": userID, "name": name, "visibility": visibility}
	var out StockListResponse
	path := fmt.Sprintf("/stocklists/update/%d", listID)
	if err := c.sendJSON(ctx, http.MethodPut, path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStockList deletes a list the user owns.
func (c *Client) DeleteStockList(ctx context.Context, listID, userID int) (string, error) {
	payload := map[string]int{"user_id": userID}
	var out MessageResponse
	path := fmt.Sprintf("/stocklists/%d", listID)
	if err := c.sendJSON(ctx, http.MethodDelete, path, payload, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ShareStockList grants username access to a list owned by ownerID.
func (c *Client) ShareStockList(ctx context.Context, ownerID, listID int, username string) (string, error) {
	payload := map[string]any{"username": username, "listId": listID, "ownerId": ownerID}
	var out MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/stocklists/share", payload, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// AccessibleStockLists returns every list userID may see, optionally
// filtered by a name search. A zero userID returns public lists only.
func (c *Client) AccessibleStockLists(ctx context.Context, userID int, search string) ([]StockList, error) {
	params := map[string]string{"user_id": optionalUser(userID), "search": search}
	var out StockListsResponse
	if err := c.getJSON(ctx, "/stocklists/lists", params, &out); err != nil {
		return nil, err
	}
	return out.StockLists, nil
}

// MyStockLists returns the lists owned by userID.
func (c *Client) MyStockLists(ctx context.Context, userID int) ([]StockList, error) {
	params := map[string]string{"userId": strconv.Itoa(userID)}
	var out StockListsResponse
	if err := c.getJSON(ctx, "/stocklists/mine", params, &out); err != nil {
		return nil, err
	}
	return out.StockLists, nil
}

// GetStockList returns one list with its items if userID may see it.
func (c *Client) GetStockList(ctx context.Context, listID, userID int) (*StockList, error) {
	params := map[string]string{"user_id": optionalUser(userID)}
	var out StockListResponse
	path := fmt.Sprintf("/stocklists/list/%d", listID)
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return &out.StockList, nil
}

// StockListStatistics returns return and risk statistics for a list.
func (c *Client) StockListStatistics(ctx context.Context, listID, userID int) (*Statistics, error) {
	params := map[string]string{"user_id": optionalUser(userID)}
	var out Statistics
	path := fmt.Sprintf("/stocklists/%d/statistics", listID)
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
