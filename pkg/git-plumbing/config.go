package git

import "context"

// UserIdentity returns the configured user in "Name <email>" format, or
// "" when neither is set. It is the default changelog author.
func (g *Git) UserIdentity(ctx context.Context) string {
	name, _ := g.Run(ctx, "config", "user.name")
	email, _ := g.Run(ctx, "config", "user.email")
	switch {
	case name != "" && email != "":
		return name + " <" + email + ">"
	case name != "":
		return name
	default:
		return email
	}
}

// ConfigSet writes a repository-local git config value.
func (g *Git) ConfigSet(ctx context.Context, key, value string) error {
	return g.RunSilent(ctx, "config", "--local", key, value)
}
