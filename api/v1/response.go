package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindingIssues converts a gin binding failure into field-path/message
// pairs so clients can highlight the offending input.
func bindingIssues(err error) []gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []gin.H{{"path": "body", "message": "Invalid request body"}}
	}
	issues := make([]gin.H, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, gin.H{"path": fe.Field(), "message": issueMessage(fe)})
	}
	return issues
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "email":
		return "Invalid email address"
	case "username":
		return "Username can only contain letters, numbers, and underscores"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
