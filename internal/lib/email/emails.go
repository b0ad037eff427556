package email

import "context"

// SendWelcomeEmail greets a newly registered user.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, name, username string) error {
	data := map[string]string{
		"Name":     name,
		"Username": username,
	}

	return c.SendEmail(ctx, to, "Welcome to Job Tracker!", TemplateWelcome, data)
}
