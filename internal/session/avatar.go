package session

import (
	"fmt"
	"strconv"
	"strings"
)

// AvatarURL returns the CDN url of a user's avatar, falling back to one of
// the default embed avatars.
func AvatarURL(userID, avatar string) string {
	if avatar != "" {
		ext := "png"
		if strings.HasPrefix(avatar, "a_") {
			ext = "gif"
		}
		return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.%s?size=512", userID, avatar, ext)
	}
	// returns 0 on error, that's all we care about
	id, _ := strconv.ParseInt(userID, 10, 64)
	return fmt.Sprintf("https://cdn.discordapp.com/embed/avatars/%d.png?size=512", (id>>22)%6)
}
