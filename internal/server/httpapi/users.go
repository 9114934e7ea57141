package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badBody(c, err)
		return
	}

	u, err := s.users.Create(c.Request.Context(), services.CreateUserInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		MembershipTier: models.MembershipTier(req.MembershipTier),
		Password:       req.Password,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(u))
}

func (s *Server) listUsers(c *gin.Context) {
	var f models.UserFilter
	if v, ok := c.GetQuery("name"); ok {
		f.Name = &v
	}
	if v, ok := c.GetQuery("email"); ok {
		f.Email = &v
	}
	if v, ok := c.GetQuery("phone"); ok {
		f.Phone = &v
	}
	if v, ok := c.GetQuery("membership_tier"); ok {
		t := models.MembershipTier(v)
		f.MembershipTier = &t
	}

	list, err := s.users.List(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}

	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getUser(c *gin.Context) {
	u, err := s.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

func (s *Server) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badBody(c, err)
		return
	}

	u, err := s.users.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

func (s *Server) deleteUser(c *gin.Context) {
	if err := s.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getUserProfile(c *gin.Context) {
	p, err := s.profiles.GetByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}
