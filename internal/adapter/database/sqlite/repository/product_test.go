package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shopcatalog/internal/adapter/database/sqlite"
	"shopcatalog/internal/adapter/database/sqlite/repository"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
	. "shopcatalog/pkg/test"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type ProductRepositoryTestSuite struct {
	suite.Suite
	ProductRepo  port.ProductRepository
	CategoryRepo port.CategoryRepository
	category     domain.Category
}

func (s *ProductRepositoryTestSuite) SetupTest() {
	db := sqlite.NewWithDB(InitTestDB())

	s.ProductRepo = repository.NewProductRepository(db, nil)
	s.CategoryRepo = repository.NewCategoryRepository(db, nil)

	category, err := s.CategoryRepo.Create(context.Background(), domain.Category{
		Name: "Electronics",
		Slug: "electronics",
	})

	s.Require().NoError(err)
	s.category = category
}

func TestProductRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(ProductRepositoryTestSuite))
}

func (s *ProductRepositoryTestSuite) createProduct(name string) domain.Product {
	product, err := s.ProductRepo.Create(context.Background(), domain.Product{
		Name:       name,
		Price:      9.99,
		SKU:        "SKU-" + name,
		CategoryID: s.category.ID,
	})

	s.Require().NoError(err)
	return product
}

func (s *ProductRepositoryTestSuite) TestRepository_Create_StartsAtVersionOne() {
	product := s.createProduct("Keyboard")

	Expect(product.ID).To(BeNumerically(">", 0))
	Expect(product.Version).To(Equal(int64(1)))
	Expect(product.DeletedAt).To(BeNil())
	Expect(product.UUID.String()).NotTo(BeEmpty())
}

func (s *ProductRepositoryTestSuite) TestRepository_Create_InvalidProduct() {
	_, err := s.ProductRepo.Create(context.Background(), domain.Product{
		Name:       "X",
		CategoryID: s.category.ID,
	})

	Expect(domain.IsValidation(err)).To(BeTrue())
}

func (s *ProductRepositoryTestSuite) TestRepository_Get_NotFound() {
	_, err := s.ProductRepo.Get(context.Background(), 12345, false)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *ProductRepositoryTestSuite) TestRepository_Update_BumpsVersion() {
	product := s.createProduct("Mouse")

	newName := "Wireless Mouse"
	updated, err := s.ProductRepo.Update(context.Background(), product.ID, domain.ProductPatch{
		Name: &newName,
	}, product.Version)

	Expect(err).To(BeNil())
	Expect(updated.Name).To(Equal("Wireless Mouse"))
	Expect(updated.Version).To(Equal(int64(2)))
	Expect(updated.Price).To(Equal(9.99))
}

func (s *ProductRepositoryTestSuite) TestRepository_Update_StaleVersionConflicts() {
	product := s.createProduct("Monitor")

	price := 199.0
	_, err := s.ProductRepo.Update(context.Background(), product.ID, domain.ProductPatch{Price: &price}, product.Version)
	s.Require().NoError(err)

	// Second writer still holds version 1.
	otherPrice := 179.0
	_, err = s.ProductRepo.Update(context.Background(), product.ID, domain.ProductPatch{Price: &otherPrice}, product.Version)

	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *ProductRepositoryTestSuite) TestRepository_Update_ConcurrentSameVersionOneWins() {
	product := s.createProduct("Console")

	prices := []float64{299.0, 349.0}
	results := make([]error, len(prices))

	var wg sync.WaitGroup
	for i := range prices {
		index := i
		wg.Go(func() {
			_, err := s.ProductRepo.Update(context.Background(), product.ID,
				domain.ProductPatch{Price: &prices[index]}, product.Version)
			results[index] = err
		})
	}
	wg.Wait()

	conflicts := 0
	for _, err := range results {
		if err != nil {
			Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
			conflicts++
		}
	}
	Expect(conflicts).To(Equal(1), "exactly one writer should lose the version race")

	final, err := s.ProductRepo.Get(context.Background(), product.ID, false)
	s.Require().NoError(err)
	Expect(final.Version).To(Equal(product.Version + 1))
}

func (s *ProductRepositoryTestSuite) TestRepository_Update_MissingRowIsNotFound() {
	name := "Ghost"
	_, err := s.ProductRepo.Update(context.Background(), 9999, domain.ProductPatch{Name: &name}, 1)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *ProductRepositoryTestSuite) TestRepository_SoftDelete_HidesRecord() {
	product := s.createProduct("Webcam")

	err := s.ProductRepo.SoftDelete(context.Background(), product.ID)
	Expect(err).To(BeNil())

	_, err = s.ProductRepo.Get(context.Background(), product.ID, false)
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())

	// The row is still there for an admin read.
	deleted, err := s.ProductRepo.Get(context.Background(), product.ID, true)
	Expect(err).To(BeNil())
	Expect(deleted.DeletedAt).NotTo(BeNil())
	Expect(deleted.Version).To(Equal(int64(2)))
}

func (s *ProductRepositoryTestSuite) TestRepository_SoftDelete_TwiceConflicts() {
	product := s.createProduct("Headset")

	s.Require().NoError(s.ProductRepo.SoftDelete(context.Background(), product.ID))

	err := s.ProductRepo.SoftDelete(context.Background(), product.ID)
	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *ProductRepositoryTestSuite) TestRepository_SoftDelete_MissingRowIsNotFound() {
	err := s.ProductRepo.SoftDelete(context.Background(), 4242)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *ProductRepositoryTestSuite) TestRepository_UpdateDeletedRowIsNotFound() {
	product := s.createProduct("Speaker")

	s.Require().NoError(s.ProductRepo.SoftDelete(context.Background(), product.ID))

	name := "Bigger Speaker"
	_, err := s.ProductRepo.Update(context.Background(), product.ID, domain.ProductPatch{Name: &name}, product.Version+1)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *ProductRepositoryTestSuite) TestRepository_Restore_RevivesRecord() {
	product := s.createProduct("Microphone")

	s.Require().NoError(s.ProductRepo.SoftDelete(context.Background(), product.ID))
	s.Require().NoError(s.ProductRepo.Restore(context.Background(), product.ID))

	restored, err := s.ProductRepo.Get(context.Background(), product.ID, false)

	Expect(err).To(BeNil())
	Expect(restored.DeletedAt).To(BeNil())
	Expect(restored.Version).To(Equal(int64(3)))
}

func (s *ProductRepositoryTestSuite) TestRepository_Restore_ActiveRowConflicts() {
	product := s.createProduct("Desk")

	err := s.ProductRepo.Restore(context.Background(), product.ID)

	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *ProductRepositoryTestSuite) TestRepository_List_ExcludesDeleted() {
	first := s.createProduct("Laptop")
	second := s.createProduct("Tablet")
	third := s.createProduct("Phone")

	s.Require().NoError(s.ProductRepo.SoftDelete(context.Background(), second.ID))

	products, err := s.ProductRepo.List(context.Background(), domain.ProductFilter{}, false)

	Expect(err).To(BeNil())
	Expect(products).To(HaveLen(2))
	Expect(products[0].ID).To(Equal(first.ID))
	Expect(products[1].ID).To(Equal(third.ID))

	all, err := s.ProductRepo.List(context.Background(), domain.ProductFilter{}, true)

	Expect(err).To(BeNil())
	Expect(all).To(HaveLen(3))
}

func (s *ProductRepositoryTestSuite) TestRepository_List_FiltersByCategoryAndName() {
	other, err := s.CategoryRepo.Create(context.Background(), domain.Category{
		Name: "Furniture",
		Slug: "furniture",
	})
	s.Require().NoError(err)

	s.createProduct("Gaming Keyboard")
	s.createProduct("Office Keyboard")

	chair, err := s.ProductRepo.Create(context.Background(), domain.Product{
		Name:       "Office Chair",
		Price:      89.0,
		SKU:        "SKU-CHAIR",
		CategoryID: other.ID,
	})
	s.Require().NoError(err)

	byCategory, err := s.ProductRepo.List(context.Background(), domain.ProductFilter{CategoryID: other.ID}, false)

	Expect(err).To(BeNil())
	Expect(byCategory).To(HaveLen(1))
	Expect(byCategory[0].ID).To(Equal(chair.ID))

	byName, err := s.ProductRepo.List(context.Background(), domain.ProductFilter{NameContains: "Keyboard"}, false)

	Expect(err).To(BeNil())
	Expect(byName).To(HaveLen(2))
}

func (s *ProductRepositoryTestSuite) TestRepository_List_Pagination() {
	for _, name := range []string{"P1", "P2", "P3", "P4", "P5"} {
		s.createProduct(name)
	}

	page, err := s.ProductRepo.List(context.Background(), domain.ProductFilter{Limit: 2, Offset: 2}, false)

	Expect(err).To(BeNil())
	Expect(page).To(HaveLen(2))
	Expect(page[0].Name).To(Equal("P3"))
	Expect(page[1].Name).To(Equal("P4"))
}
