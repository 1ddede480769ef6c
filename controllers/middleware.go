package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"Aarogyam/services"
	"Aarogyam/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionCookie is the cookie the login handler sets and the middleware reads.
const SessionCookie = "session"

/*
* Token comes from the session cookie or a bearer header
* Verify signature, expiry and the live server-side session
* Stash id and role for the handlers downstream
 */
func Authenticated(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(util.ErrUnauthorized))
			return
		}
		session, err := auth.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(err))
			return
		}
		c.Set("id", session.PrincipalID)
		c.Set("role", session.Role)
		c.Next()
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(util.ErrUnauthorized))
			return
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func principalID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.GetString("id"))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", util.ErrUnauthorized, util.INVALID_OBJECT_ID)
	}
	return id, nil
}

func paramID(c *gin.Context, name string) (primitive.ObjectID, error) {
	return hexID(c.Param(name))
}

func hexID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", util.ErrValidationFailed, util.INVALID_OBJECT_ID)
	}
	return id, nil
}

// formField reads a namespaced form key ("group[field]"), falling back to the
// bare field name for JSON-less flat submissions.
func formField(c *gin.Context, group, field string) string {
	if v := c.PostForm(fmt.Sprintf("%s[%s]", group, field)); v != "" {
		return v
	}
	return c.PostForm(field)
}
