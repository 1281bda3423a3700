package repository_test

import (
	"context"
	"errors"
	"testing"

	"shopcatalog/internal/adapter/database/sqlite"
	"shopcatalog/internal/adapter/database/sqlite/repository"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
	"shopcatalog/internal/core/util"
	"shopcatalog/pkg/test"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	UserRepo port.UserRepository
}

func (s *UserRepositoryTestSuite) SetupTest() {
	db := sqlite.NewWithDB(test.InitTestDB())
	s.UserRepo = repository.NewUserRepository(db)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositoryTestSuite))
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_DefaultsToCustomer() {
	encrypted, err := util.GenerateEncrypt("12345678")
	s.Require().NoError(err)

	user, err := s.UserRepo.Create(context.Background(), domain.User{
		Name:              "Test User",
		Email:             "test@example.com",
		EncryptedPassword: encrypted,
	})

	Expect(err).To(BeNil())
	Expect(user.ID).To(BeNumerically(">", 0))
	Expect(user.Role).To(Equal(domain.RoleCustomer))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByEmail() {
	encrypted, _ := util.GenerateEncrypt("12345678")

	created, err := s.UserRepo.Create(context.Background(), domain.User{
		Name:              "Admin User",
		Email:             "admin@example.com",
		EncryptedPassword: encrypted,
		Role:              domain.RoleAdmin,
	})
	s.Require().NoError(err)

	found, err := s.UserRepo.GetByEmail(context.Background(), "admin@example.com")

	Expect(err).To(BeNil())
	Expect(found.ID).To(Equal(created.ID))
	Expect(found.IsAdmin()).To(BeTrue())

	_, err = s.UserRepo.GetByEmail(context.Background(), "nobody@example.com")

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}
