package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gobeampay/types"
)

var ErrOrderNotFound = errors.New("order not found")

// Store keeps the storefront documents as full-replace JSON files. One
// mutex serializes all writers: chain scanners run in parallel and must
// not race on orders.json.
type Store struct {
	mu           sync.Mutex
	ordersPath   string
	productsPath string
	sellerPath   string
}

func New(ordersPath, productsPath, sellerPath string) *Store {
	return &Store{
		ordersPath:   ordersPath,
		productsPath: productsPath,
		sellerPath:   sellerPath,
	}
}

func readJSONFile(path string, out interface{}) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func writeJSONFile(path string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

func (s *Store) Orders() ([]types.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ordersLocked()
}

func (s *Store) ordersLocked() ([]types.Order, error) {
	orders := []types.Order{}
	if err := readJSONFile(s.ordersPath, &orders); err != nil {
		return nil, fmt.Errorf("cannot read orders: %s", err.Error())
	}
	return orders, nil
}

func (s *Store) GetOrder(id int64) (*types.Order, error) {
	orders, err := s.Orders()
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, ErrOrderNotFound
}

// CreateOrder assigns id (creation timestamp), status and createdAt, then
// appends the order.
func (s *Store) CreateOrder(order *types.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.ordersLocked()
	if err != nil {
		return err
	}

	now := time.Now()
	order.ID = now.UnixMilli()
	order.Status = types.OrderUnpaid
	order.CreatedAt = now.UTC().Format(time.RFC3339)

	orders = append(orders, *order)
	return writeJSONFile(s.ordersPath, orders)
}

// MarkPaid is the single paid-transition point. The transition is
// monotone: an already-paid order is left untouched and reported as such.
func (s *Store) MarkPaid(id int64, network string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.ordersLocked()
	if err != nil {
		return false, err
	}

	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		if orders[i].Status == types.OrderPaid {
			return false, nil
		}
		orders[i].Status = types.OrderPaid
		orders[i].PaidAt = time.Now().UTC().Format(time.RFC3339)
		orders[i].PaidNetwork = network
		return true, writeJSONFile(s.ordersPath, orders)
	}
	return false, ErrOrderNotFound
}

// SetOrderStatus handles the manual merchant override. Only the forward
// transition to paid is allowed; paid orders never go back to unpaid.
func (s *Store) SetOrderStatus(id int64, status string) error {
	if status != types.OrderPaid && status != types.OrderUnpaid {
		return fmt.Errorf("unknown order status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.ordersLocked()
	if err != nil {
		return err
	}

	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		if orders[i].Status == types.OrderPaid && status == types.OrderUnpaid {
			return errors.New("paid orders cannot be reverted to unpaid")
		}
		if orders[i].Status == status {
			return nil
		}
		orders[i].Status = status
		if status == types.OrderPaid {
			orders[i].PaidAt = time.Now().UTC().Format(time.RFC3339)
		}
		return writeJSONFile(s.ordersPath, orders)
	}
	return ErrOrderNotFound
}

func (s *Store) DeleteOrder(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.ordersLocked()
	if err != nil {
		return err
	}

	kept := orders[:0]
	for _, o := range orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(orders) {
		return ErrOrderNotFound
	}
	return writeJSONFile(s.ordersPath, kept)
}

func (s *Store) Products() ([]types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := []types.Product{}
	if err := readJSONFile(s.productsPath, &products); err != nil {
		return nil, fmt.Errorf("cannot read products: %s", err.Error())
	}
	return products, nil
}

func (s *Store) CreateProduct(product *types.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := []types.Product{}
	if err := readJSONFile(s.productsPath, &products); err != nil {
		return fmt.Errorf("cannot read products: %s", err.Error())
	}

	product.ID = time.Now().UnixMilli()
	products = append(products, *product)
	return writeJSONFile(s.productsPath, products)
}

// Seller returns the merchant profile, defaulting to an empty profile on
// the Ethereum domain when none was saved yet.
func (s *Store) Seller() (types.SellerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seller := types.SellerProfile{ChainID: "0"}
	if err := readJSONFile(s.sellerPath, &seller); err != nil {
		return seller, fmt.Errorf("cannot read seller profile: %s", err.Error())
	}
	if seller.ChainID == "" {
		seller.ChainID = "0"
	}
	return seller, nil
}

func (s *Store) SaveSeller(seller types.SellerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONFile(s.sellerPath, seller)
}
