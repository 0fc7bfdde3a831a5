package handlers

import (
	"net/http"

	"voicedesk/cron"
	"voicedesk/services/conversation"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
)

// ListRemindersHandler returns the pending reminder notices for a phone
// number. The phone is normalized the same way identification does, so
// the key always matches what booking stored.
func ListRemindersHandler(c *gin.Context) {
	phone := conversation.NormalizePhone(c.Param("phone"))
	if phone == "" {
		utils.JSONError(c, http.StatusBadRequest, "phone is required", "")
		return
	}

	notices, err := cron.ListNotices(c.Request.Context(), utils.GetCacheClient(), phone)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load reminders", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"phone":     phone,
		"reminders": notices,
	})
}
