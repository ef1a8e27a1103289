package customer

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/address"
	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	customers []model.Customer
	updates   []model.CustomerUpdate
	listErr   error
}

func (m *memStore) ListCustomers(_ context.Context, businessID string) ([]model.Customer, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Customer
	for _, c := range m.customers {
		if c.BusinessID == businessID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) GetCustomer(_ context.Context, id string) (*model.Customer, error) {
	for i := range m.customers {
		if m.customers[i].ID == id {
			c := m.customers[i]
			return &c, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memStore) CreateCustomer(_ context.Context, c *model.Customer) error {
	m.customers = append(m.customers, *c)
	return nil
}

func (m *memStore) UpdateCustomer(_ context.Context, id string, u model.CustomerUpdate) error {
	m.updates = append(m.updates, u)
	for i := range m.customers {
		c := &m.customers[i]
		if c.ID != id {
			continue
		}
		if u.Name != nil {
			c.Name = *u.Name
		}
		if u.Email != nil {
			c.Email = u.Email
		}
		if u.Address != nil {
			c.Address = u.Address
		}
		if u.AddressJSON != nil {
			c.AddressJSON = u.AddressJSON
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }

var helperBusiness = &model.Business{ID: "biz-1", Type: model.BusinessRestaurant}

func TestResolve_CreatesCustomerWithAddress(t *testing.T) {
	store := &memStore{}
	r := NewResolver(store, nil)

	c, err := r.Resolve(context.Background(), helperBusiness, Input{
		Name:            "  Arta Hoxha ",
		Phone:           "+355 69 123 4567",
		Email:           "arta@example.com",
		Fulfillment:     model.FulfillmentDelivery,
		DeliveryAddress: "Rruga Myslym Shyri, Tirana, AL",
	})
	require.NoError(t, err)

	assert.Equal(t, "Arta Hoxha", c.Name)
	assert.Equal(t, "arta@example.com", *c.Email)
	require.NotNil(t, c.AddressJSON)
	assert.Equal(t, "Rruga Myslym Shyri", c.AddressJSON.Street)
	assert.Equal(t, "AL", c.AddressJSON.Country)
	assert.Equal(t, "Rruga Myslym Shyri, Tirana", *c.Address)
	assert.Len(t, store.customers, 1)
}

func TestResolve_PickupLeavesAddressEmpty(t *testing.T) {
	store := &memStore{}
	r := NewResolver(store, nil)

	c, err := r.Resolve(context.Background(), helperBusiness, Input{
		Name:            "Ben",
		Phone:           "+15551234567",
		Fulfillment:     model.FulfillmentPickup,
		DeliveryAddress: "ignored, street",
	})
	require.NoError(t, err)
	assert.Nil(t, c.Address)
	assert.Nil(t, c.AddressJSON)
	assert.Nil(t, c.Email)
}

func TestResolve_StructuredAddress(t *testing.T) {
	store := &memStore{}
	r := NewResolver(store, nil)

	c, err := r.Resolve(context.Background(), helperBusiness, Input{
		Name:            "Eleni",
		Phone:           "+30 690 123 4567",
		Fulfillment:     model.FulfillmentDelivery,
		DeliveryAddress: "Ermou 5, 2nd floor, Athens",
		Hints:           address.Hints{City: "Athens", CountryCode: "GR", PostalCode: "105 63"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ermou 5", c.AddressJSON.Street)
	assert.Equal(t, "2nd floor", c.AddressJSON.Additional)
	assert.Equal(t, "105 63", c.AddressJSON.ZipCode)
	assert.Equal(t, "Ermou 5, 2nd floor, Athens, 105 63", *c.Address)
}

func TestResolve_SameSubscriberDifferentFormatting(t *testing.T) {
	store := &memStore{}
	r := NewResolver(store, nil)
	ctx := context.Background()

	first, err := r.Resolve(ctx, helperBusiness, Input{Name: "Ben", Phone: "+15551234567", Fulfillment: model.FulfillmentPickup})
	require.NoError(t, err)

	second, err := r.Resolve(ctx, helperBusiness, Input{Name: "Ben", Phone: "15551234567", Fulfillment: model.FulfillmentPickup})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.customers, 1)
	assert.Empty(t, store.updates)
}

func TestResolve_OtherBusinessCustomerNotReused(t *testing.T) {
	store := &memStore{customers: []model.Customer{{ID: "c-other", BusinessID: "biz-2", Phone: "+15551234567"}}}
	r := NewResolver(store, nil)

	c, err := r.Resolve(context.Background(), helperBusiness, Input{Name: "Ben", Phone: "15551234567", Fulfillment: model.FulfillmentPickup})
	require.NoError(t, err)
	assert.NotEqual(t, "c-other", c.ID)
	assert.Len(t, store.customers, 2)
}

func TestResolve_UpdatesAndReloads(t *testing.T) {
	store := &memStore{customers: []model.Customer{{
		ID: "c-1", BusinessID: "biz-1", Name: "Old Name", Phone: "+1 (555) 123-4567",
	}}}
	r := NewResolver(store, nil)

	c, err := r.Resolve(context.Background(), helperBusiness, Input{
		Name:        "New Name",
		Phone:       "15551234567",
		Email:       "new@example.com",
		Fulfillment: model.FulfillmentPickup,
	})
	require.NoError(t, err)

	assert.Equal(t, "c-1", c.ID)
	assert.Equal(t, "New Name", c.Name)
	assert.Equal(t, "new@example.com", *c.Email)
	require.Len(t, store.updates, 1)
}

func TestResolve_ListError(t *testing.T) {
	r := NewResolver(&memStore{listErr: errors.New("db down")}, nil)

	_, err := r.Resolve(context.Background(), helperBusiness, Input{Phone: "15551234567"})
	assert.Error(t, err)
}

func TestBuildUpdate_BlankValuesKeepStored(t *testing.T) {
	existing := &model.Customer{Name: "Arta", Email: strPtr("arta@example.com")}

	update := BuildUpdate(existing, Input{Name: "   ", Email: "", Fulfillment: model.FulfillmentPickup})
	assert.True(t, update.IsEmpty())

	update = BuildUpdate(existing, Input{Name: "Arta", Email: "arta@example.com"})
	assert.True(t, update.IsEmpty())
}

func TestBuildUpdate_SameStreetKeepsAddress(t *testing.T) {
	existing := &model.Customer{
		Name:        "Ben",
		Address:     strPtr("123 Main St"),
		AddressJSON: &model.Address{Street: "123 Main St"},
	}

	update := BuildUpdate(existing, Input{
		Name:            "Ben",
		Fulfillment:     model.FulfillmentDelivery,
		DeliveryAddress: "123 main st, Apt 2, Springfield",
	})
	assert.Nil(t, update.Address)
	assert.Nil(t, update.AddressJSON)
}

func TestBuildUpdate_SameStreetSameCityKeepsAddress(t *testing.T) {
	existing := &model.Customer{
		Address:     strPtr("123 Main St, Springfield"),
		AddressJSON: &model.Address{Street: "123 Main St", City: "Springfield"},
	}

	update := BuildUpdate(existing, Input{
		Fulfillment:     model.FulfillmentDelivery,
		DeliveryAddress: "123 MAIN ST, springfield, Apt 2",
	})
	assert.Nil(t, update.Address)
}

func TestBuildUpdate_CityChangedReplacesAddress(t *testing.T) {
	existing := &model.Customer{
		Address:     strPtr("123 Main St, Springfield"),
		AddressJSON: &model.Address{Street: "123 Main St", City: "Springfield"},
	}

	update := BuildUpdate(existing, Input{
		Fulfillment:     model.FulfillmentDelivery,
		DeliveryAddress: "123 Main St, Shelbyville",
	})
	require.NotNil(t, update.AddressJSON)
	assert.Equal(t, "Shelbyville", update.AddressJSON.City)
	assert.Equal(t, update.AddressJSON.Display(), *update.Address)
}

func TestBuildUpdate_StreetChangedReplacesAddress(t *testing.T) {
	existing := &model.Customer{
		Address:     strPtr("123 Main St"),
		AddressJSON: &model.Address{Street: "123 Main St"},
	}

	update := BuildUpdate(existing, Input{
		Fulfillment:     model.FulfillmentDelivery,
		DeliveryAddress: "9 Elm St, Springfield",
	})
	require.NotNil(t, update.AddressJSON)
	assert.Equal(t, "9 Elm St", update.AddressJSON.Street)
}

func TestBuildUpdate_MissingStoredAddress(t *testing.T) {
	noAddress := &model.Customer{}
	update := BuildUpdate(noAddress, Input{Fulfillment: model.FulfillmentDelivery, DeliveryAddress: "9 Elm St"})
	assert.NotNil(t, update.Address)

	noJSON := &model.Customer{Address: strPtr("9 Elm St")}
	update = BuildUpdate(noJSON, Input{Fulfillment: model.FulfillmentDelivery, DeliveryAddress: "9 Elm St"})
	assert.NotNil(t, update.AddressJSON)
}
