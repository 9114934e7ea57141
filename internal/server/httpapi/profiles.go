package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) createProfile(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badBody(c, err)
		return
	}

	p, err := s.profiles.Create(c.Request.Context(), services.CreateProfileInput{
		UserID:      req.UserID,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		StyleTags:   req.StyleTags,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProfileResponse(p))
}

func (s *Server) listProfiles(c *gin.Context) {
	var f models.ProfileFilter
	if v, ok := c.GetQuery("user_id"); ok {
		f.UserID = &v
	}
	if v, ok := c.GetQuery("username"); ok {
		f.Username = &v
	}

	list, err := s.profiles.List(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}

	out := make([]profileResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProfileResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getProfile(c *gin.Context) {
	p, err := s.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badBody(c, err)
		return
	}

	p, err := s.profiles.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

func (s *Server) deleteProfile(c *gin.Context) {
	if err := s.profiles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
