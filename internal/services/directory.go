package services

import (
	"strings"

	"github.com/yukikurage/office-task-api/internal/models"
)

// ConvertToUsername resolves a comma-separated officer string for display.
// Tokens equal to a user ID become that user's username; everything else is
// passed through unchanged.
func ConvertToUsername(identifier string, users []models.User) string {
	return strings.Join(ResolveOfficers(models.ParseOfficerList(identifier), users), ", ")
}

// ResolveOfficers is the list form of ConvertToUsername.
func ResolveOfficers(officers []string, users []models.User) []string {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	resolved := make([]string, 0, len(officers))
	for _, officer := range officers {
		officer = strings.TrimSpace(officer)
		if officer == "" {
			continue
		}
		if name, ok := names[officer]; ok {
			officer = name
		}
		resolved = append(resolved, officer)
	}
	return resolved
}
