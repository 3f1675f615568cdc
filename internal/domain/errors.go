package domain

import "fmt"

// NoRepositoriesError 用户存在但没有公开仓库，携带 Profile 以便部分展示
type NoRepositoriesError struct {
	Profile Profile
}

func (e *NoRepositoriesError) Error() string {
	return fmt.Sprintf("user %s has no public repositories", e.Profile.Login)
}

// ErrorCode lets common.Code classify the error without an import cycle.
func (e *NoRepositoriesError) ErrorCode() string {
	return "NO_REPOSITORIES"
}
