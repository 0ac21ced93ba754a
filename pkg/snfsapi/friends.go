package snfsapi

import (
	"context"
	"net/http"
	"strconv"
)

// ListFriends returns the accepted friends of userID.
func (c *Client) ListFriends(ctx context.Context, userID int) ([]Friend, error) {
	var out FriendsResponse
	params := map[string]string{"userId": strconv.Itoa(userID)}
	if err := c.getJSON(ctx, "/friends/view", params, &out); err != nil {
		return nil, err
	}
	return out.Friends, nil
}

// RemoveFriend ends the friendship between userID and friendID.
func (c *Client) RemoveFriend(ctx context.Context, userID, friendID int) (string, error) {
	payload := map[string]int{"userId": userID, "friendId": friendID}
	var out MessageResponse
	if err := c.sendJSON(ctx, http.MethodDelete, "/friends/remove", payload, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// SendFriendRequest asks receiverID to become a friend of senderID.
func (c *Client) SendFriendRequest(ctx context.Context, senderID, receiverID int) (*FriendRequestResponse, error) {
	payload := map[string]int{"senderId": senderID, "receiverId": receiverID}
	var out FriendRequestResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/requests/send", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFriendRequests returns the requests userID has received.
func (c *Client) ListFriendRequests(ctx context.Context, userID int) ([]FriendRequest, error) {
	var out FriendRequestsResponse
	params := map[string]string{"userId": strconv.Itoa(userID)}
	if err := c.getJSON(ctx, "/requests/view", params, &out); err != nil {
		return nil, err
	}
	return out.ReceivedRequests, nil
}

// AcceptFriendRequest accepts the request with the given id.
func (c *Client) AcceptFriendRequest(ctx context.Context, requestID int) (*FriendRequestResponse, error) {
	return c.resolveFriendRequest(ctx, "/requests/accept", requestID)
}

// RejectFriendRequest rejects the request with the given id.
func (c *Client) RejectFriendRequest(ctx context.Context, requestID int) (*FriendRequestResponse, error) {
	return c.resolveFriendRequest(ctx, "/requests/reject", requestID)
}

func (c *Client) resolveFriendRequest(ctx context.Context, path string, requestID int) (*FriendRequestResponse, error) {
	path = path + "?requestId=" + strconv.Itoa(requestID)
	var out FriendRequestResponse
	if err := c.sendJSON(ctx, http.MethodPatch, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
