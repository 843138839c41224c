package domain

import (
	"regexp"
)

var userIdRegexp = regexp.MustCompile(`^user_[A-Za-z0-9]{24,}$`)

func IsValidUserId(userId string) bool {
	return userIdRegexp.MatchString(userId)
}
