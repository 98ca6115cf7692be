package discord

import "github.com/bwmarrin/discordgo"

// requireAdminOrRoles gates the configuration commands (/track,
// /channels): guild owner, the Administrator permission, or one of the
// explicitly configured admin roles.
func (r *Router) requireAdminOrRoles(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	m := ic.Member
	if m == nil || m.User == nil {
		ReplyEphemeral(s, ic, "🔒 You don't have permission for that.")
		return false
	}

	if g, _ := s.State.Guild(ic.GuildID); g != nil && m.User.ID == g.OwnerID {
		return true
	}

	for _, want := range r.adminRoleIDs {
		for _, rid := range m.Roles {
			if rid == want {
				return true
			}
		}
	}

	roles, _ := s.GuildRoles(ic.GuildID)
	byID := make(map[string]int64, len(roles))
	for _, ro := range roles {
		byID[ro.ID] = ro.Permissions
	}
	for _, rid := range m.Roles {
		if byID[rid]&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	ReplyEphemeral(s, ic, "🔒 You don't have permission for that.")
	return false
}
