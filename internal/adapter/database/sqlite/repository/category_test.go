package repository_test

import (
	"context"
	"errors"
	"testing"

	"shopcatalog/internal/adapter/database/sqlite"
	"shopcatalog/internal/adapter/database/sqlite/repository"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
	"shopcatalog/pkg/test"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type CategoryRepositoryTestSuite struct {
	suite.Suite
	CategoryRepo port.CategoryRepository
}

func (s *CategoryRepositoryTestSuite) SetupTest() {
	db := sqlite.NewWithDB(test.InitTestDB())
	s.CategoryRepo = repository.NewCategoryRepository(db, nil)
}

func TestCategoryRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(CategoryRepositoryTestSuite))
}

func (s *CategoryRepositoryTestSuite) TestRepository_CreateAndGet() {
	category, err := s.CategoryRepo.Create(context.Background(), domain.Category{
		Name: "Home Office",
		Slug: domain.Slugify("Home Office"),
	})

	Expect(err).To(BeNil())
	Expect(category.Slug).To(Equal("home-office"))
	Expect(category.Version).To(Equal(int64(1)))

	found, err := s.CategoryRepo.Get(context.Background(), category.ID, false)

	Expect(err).To(BeNil())
	Expect(found.Name).To(Equal("Home Office"))
}

func (s *CategoryRepositoryTestSuite) TestRepository_Update_RenamesAndBumpsVersion() {
	category, err := s.CategoryRepo.Create(context.Background(), domain.Category{
		Name: "Gadgets",
		Slug: "gadgets",
	})
	s.Require().NoError(err)

	name := "Gadgets & Gizmos"
	updated, err := s.CategoryRepo.Update(context.Background(), category.ID, domain.CategoryPatch{Name: &name}, category.Version)

	Expect(err).To(BeNil())
	Expect(updated.Name).To(Equal("Gadgets & Gizmos"))
	Expect(updated.Version).To(Equal(int64(2)))

	_, err = s.CategoryRepo.Update(context.Background(), category.ID, domain.CategoryPatch{Name: &name}, category.Version)

	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *CategoryRepositoryTestSuite) TestRepository_SoftDeleteCycle() {
	category, err := s.CategoryRepo.Create(context.Background(), domain.Category{
		Name: "Seasonal",
		Slug: "seasonal",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.CategoryRepo.SoftDelete(context.Background(), category.ID))

	visible, err := s.CategoryRepo.List(context.Background(), domain.CategoryFilter{}, false)
	Expect(err).To(BeNil())
	Expect(visible).To(BeEmpty())

	hidden, err := s.CategoryRepo.List(context.Background(), domain.CategoryFilter{}, true)
	Expect(err).To(BeNil())
	Expect(hidden).To(HaveLen(1))

	s.Require().NoError(s.CategoryRepo.Restore(context.Background(), category.ID))

	restored, err := s.CategoryRepo.Get(context.Background(), category.ID, false)
	Expect(err).To(BeNil())
	Expect(restored.DeletedAt).To(BeNil())
}
