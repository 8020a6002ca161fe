package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/office-task-api/internal/constants"
	"github.com/yukikurage/office-task-api/internal/dto"
	apierrors "github.com/yukikurage/office-task-api/internal/errors"
	"github.com/yukikurage/office-task-api/internal/models"
	"github.com/yukikurage/office-task-api/internal/services"
)

type UserHandlerTestSuite struct {
	APITestSuite
}

func (s *UserHandlerTestSuite) createUser(prefix, username, password string, role models.Role) dto.UserDTO {
	w := s.do(http.MethodPost, prefix, map[string]string{"username": username, "password": password, "role": string(role)})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var user dto.UserDTO
	s.decode(w, &user)
	return user
}

func (s *UserHandlerTestSuite) TestCreateAndList() {
	user := s.createUser("/user-management", "Principal Officer 1", "secret", models.RolePrincipalOfficer)
	s.NotEmpty(user.ID)
	s.Equal(models.UserStatusActive, user.Status)

	w := s.do(http.MethodGet, "/users", nil)
	s.Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "password")
	s.NotContains(w.Body.String(), "secret")

	var users []dto.UserDTO
	s.decode(w, &users)
	s.Require().Len(users, 1)
	s.Equal(user.ID, users[0].ID)
}

func (s *UserHandlerTestSuite) TestCreate_Errors() {
	s.createUser("/users", "Officer 1", "secret", models.RoleOfficer)

	w := s.do(http.MethodPost, "/users", map[string]string{"username": "Officer 1", "password": "x", "role": "officer"})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/users", map[string]string{"username": "Officer 2", "password": "x", "role": "janitor"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/users", map[string]string{"username": "Officer 3"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *UserHandlerTestSuite) TestLoginMeLogout() {
	user := s.createUser("/user-management", "Deputy", "secret", models.RoleDeputyDirector)

	w := s.do(http.MethodGet, "/user-management/me", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/user-management/login", map[string]string{"username": "Deputy", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, w.Code)
	var failure apiError
	s.decode(w, &failure)
	s.Equal(apierrors.ErrCodeInvalidCredentials, failure.Code)

	w = s.do(http.MethodPost, "/user-management/login", map[string]string{"username": "Deputy", "password": "secret"})
	s.Require().Equal(http.StatusOK, w.Code)
	var login struct {
		User dto.UserDTO `json:"user"`
		Role models.Role `json:"role"`
	}
	s.decode(w, &login)
	s.Equal(user.ID, login.User.ID)
	s.Equal(models.RoleDeputyDirector, login.Role)

	cookies := w.Result().Cookies()
	s.Require().NotEmpty(cookies)
	s.Equal(constants.SessionCookieName, cookies[0].Name)

	w = s.do(http.MethodGet, "/user-management/me", nil, cookies...)
	s.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserDTO
	s.decode(w, &me)
	s.Equal("Deputy", me.Username)

	w = s.do(http.MethodPost, "/user-management/logout", nil, cookies...)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/user-management/me", nil, w.Result().Cookies()...)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *UserHandlerTestSuite) TestUpdateAndDelete() {
	deputy := s.createUser("/users", "Deputy", "secret", models.RoleDeputyDirector)
	officer := s.createUser("/users", "Officer 1", "secret", models.RoleOfficer)

	w := s.do(http.MethodPut, "/users/"+officer.ID, map[string]string{"role": "seniorOfficer", "username": ""})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.UserDTO
	s.decode(w, &updated)
	s.Equal(models.RoleSeniorOfficer, updated.Role)
	s.Equal("Officer 1", updated.Username)

	w = s.do(http.MethodDelete, "/users/"+deputy.ID, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	var body apiError
	s.decode(w, &body)
	s.Equal(apierrors.ErrCodeInvalidOperation, body.Code)
	s.Equal("Cannot delete or demote the last deputy director account", body.Message)

	w = s.do(http.MethodPut, "/users/"+deputy.ID, map[string]string{"role": "officer"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.decode(w, &body)
	s.Equal(apierrors.ErrCodeInvalidOperation, body.Code)
	s.Equal("Cannot delete or demote the last deputy director account", body.Message)

	w = s.do(http.MethodDelete, "/users/"+officer.ID, nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"User deleted successfully"}`, w.Body.String())

	w = s.do(http.MethodDelete, "/users/"+officer.ID, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *UserHandlerTestSuite) TestRolesAndOfficers() {
	w := s.do(http.MethodGet, "/user-management/roles", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`["deputyDirector","principalOfficer","seniorOfficer","officer"]`, w.Body.String())

	s.createUser("/users", "Principal Officer 1", "x", models.RolePrincipalOfficer)
	s.createUser("/users", "Senior Officer 2", "x", models.RoleSeniorOfficer)
	s.createUser("/users", "Officer 3", "x", models.RoleOfficer)

	w = s.do(http.MethodGet, "/officers/senior", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var senior []dto.OfficerDTO
	s.decode(w, &senior)
	s.Len(senior, 2)

	w = s.do(http.MethodGet, "/officers", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var officers []dto.OfficerDTO
	s.decode(w, &officers)
	s.Len(officers, 3)
}

func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}

// RoleEnforcedTestSuite runs user management with role checks switched on.
type RoleEnforcedTestSuite struct {
	APITestSuite
}

func (s *RoleEnforcedTestSuite) SetupTest() {
	s.enforceRoles = true
	s.APITestSuite.SetupTest()
}

func (s *RoleEnforcedTestSuite) login(username, password string) []*http.Cookie {
	w := s.do(http.MethodPost, "/users/login", map[string]string{"username": username, "password": password})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return w.Result().Cookies()
}

func (s *RoleEnforcedTestSuite) TestMutationsRequireDeputy() {
	newUser := map[string]string{"username": "Officer 2", "password": "x", "role": "officer"}

	w := s.do(http.MethodPost, "/users", newUser)
	s.Equal(http.StatusUnauthorized, w.Code)

	_, err := s.users.Create(services.CreateUserInput{Username: "Deputy", Password: "secret", Role: models.RoleDeputyDirector})
	s.Require().NoError(err)
	_, err = s.users.Create(services.CreateUserInput{Username: "Officer 1", Password: "secret", Role: models.RoleOfficer})
	s.Require().NoError(err)

	w = s.do(http.MethodPost, "/users", newUser, s.login("Officer 1", "secret")...)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/users", newUser, s.login("Deputy", "secret")...)
	s.Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/users", nil)
	s.Equal(http.StatusOK, w.Code)
}

func TestRoleEnforcedTestSuite(t *testing.T) {
	suite.Run(t, new(RoleEnforcedTestSuite))
}
