package session

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// Flash kinds map to the banner style on the next render.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

const flashCookie = "manager_flash"

// Flash is a one-shot message shown on the next page load, standing in for
// the blocking alerts of the old panel.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SetFlash queues a flash message for the next request.
func SetFlash(c *gin.Context, kind, message string) {
	payload, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	encoded := base64.URLEncoding.EncodeToString(payload)
	c.SetSameSite(sameSiteMode())
	c.SetCookie(flashCookie, encoded, 60, "/", "", secureCookies(), true)
}

// TakeFlash returns the pending flash, if any, and clears it.
func TakeFlash(c *gin.Context) *Flash {
	encoded, err := c.Cookie(flashCookie)
	if err != nil || encoded == "" {
		return nil
	}

	c.SetSameSite(sameSiteMode())
	c.SetCookie(flashCookie, "", -1, "/", "", secureCookies(), true)

	payload, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	var flash Flash
	if err := json.Unmarshal(payload, &flash); err != nil {
		return nil
	}
	return &flash
}
