package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateProduct_NonAdminForbidden(t *testing.T) {
	productRepo := newStubProductRepo()
	router := newTestRouter(newStubCartRepo(), productRepo)

	body := `{"name":"Widget","description":"A widget","price":"10.00","category":"Other"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, primitive.NewObjectID(), false))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, productRepo.products, "a forbidden create must not write")
}

func TestCreateProduct_NoTokenUnauthorized(t *testing.T) {
	productRepo := newStubProductRepo()
	router := newTestRouter(newStubCartRepo(), productRepo)

	body := `{"name":"Widget","description":"A widget","price":"10.00","category":"Other"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, productRepo.products)
}

func TestDeleteProduct_NonAdminForbidden(t *testing.T) {
	productRepo := newStubProductRepo()
	router := newTestRouter(newStubCartRepo(), productRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+primitive.NewObjectID().Hex(), nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, primitive.NewObjectID(), false))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateProduct_AdminAllowed(t *testing.T) {
	productRepo := newStubProductRepo()
	router := newTestRouter(newStubCartRepo(), productRepo)

	body := `{"name":"Widget","description":"A widget","price":"10.00","category":"Other"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, primitive.NewObjectID(), true))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, productRepo.products, 1)
}
