package spotify

import "context"

// GetUserProfile fetches the profile of the user the token belongs to.
func (c *Client) GetUserProfile(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.get(ctx, c.url("me"), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
