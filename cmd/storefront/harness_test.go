package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}

//
// ---------- STUBS ----------
//

// stubUserRepo implements user.Repository in memory, hashing for real so
// Authenticate behaves like the pg repo. Show derives lastPurchasedProducts
// from the order and product stubs the way the SQL join does.
type stubUserRepo struct {
	hasher   user.Hasher
	nextID   int64
	byID     map[int64]*user.User
	orders   *stubOrderRepo
	products *stubProductRepo
}

func newStubUserRepo(orders *stubOrderRepo, products *stubProductRepo) *stubUserRepo {
	return &stubUserRepo{
		hasher:   user.NewHasher("test-pepper", 4),
		byID:     make(map[int64]*user.User),
		orders:   orders,
		products: products,
	}
}

func (s *stubUserRepo) Create(ctx context.Context, n user.NewUser) (*user.User, error) {
	for _, u := range s.byID {
		if u.Email == n.Email {
			return nil, user.ErrAlreadyExist
		}
	}
	hash, err := s.hasher.Hash(n.Password)
	if err != nil {
		return nil, err
	}
	s.nextID++
	u := &user.User{ID: s.nextID, Firstname: n.Firstname, Lastname: n.Lastname, Email: n.Email, PasswordHash: hash}
	s.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *stubUserRepo) Index(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			if s.hasher.Check(u.PasswordHash, password) {
				cp := *u
				return &cp, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) Show(ctx context.Context, id int64) (*user.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	cp.LastPurchasedProducts = s.lastPurchased(id)
	return &cp, nil
}

// lastPurchased mirrors the repo's join: distinct product names across the
// user's orders, most recently ordered first, capped at five.
func (s *stubUserRepo) lastPurchased(userID int64) []string {
	lastOrder := make(map[string]int64)
	for _, it := range s.orders.items {
		o, ok := s.orders.orders[it.OrderID]
		if !ok || o.UserID != userID {
			continue
		}
		p, ok := s.products.products[it.ProductID]
		if !ok {
			continue
		}
		if it.OrderID > lastOrder[p.Name] {
			lastOrder[p.Name] = it.OrderID
		}
	}
	names := make([]string, 0, len(lastOrder))
	for name := range lastOrder {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return lastOrder[names[i]] > lastOrder[names[j]] })
	if len(names) > 5 {
		names = names[:5]
	}
	return names
}

func (s *stubUserRepo) Update(ctx context.Context, in user.UpdateUser) (*user.User, error) {
	u, ok := s.byID[in.ID]
	if !ok {
		return nil, user.ErrNotFound
	}
	if in.Firstname == nil && in.Lastname == nil && in.Email == nil && in.Password == nil {
		return nil, user.ErrNoFields
	}
	if in.Firstname != nil {
		u.Firstname = *in.Firstname
	}
	if in.Lastname != nil {
		u.Lastname = *in.Lastname
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id int64) (*user.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	delete(s.byID, id)
	return u, nil
}

// stubOrderRepo implements order.Repository in memory.
type stubOrderRepo struct {
	nextID     int64
	nextItemID int64
	orders     map[int64]*order.Order
	items      map[int64]*order.LineItem
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[int64]*order.Order), items: make(map[int64]*order.LineItem)}
}

func (s *stubOrderRepo) Create(ctx context.Context, status string, userID int64) (*order.Order, error) {
	s.nextID++
	o := &order.Order{ID: s.nextID, Status: status, UserID: userID}
	s.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (s *stubOrderRepo) Index(ctx context.Context) ([]order.Order, error) {
	out := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrderRepo) Show(ctx context.Context, id int64) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubOrderRepo) Update(ctx context.Context, id int64, status string) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (s *stubOrderRepo) Delete(ctx context.Context, id int64) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	for itemID, it := range s.items {
		if it.OrderID == id {
			delete(s.items, itemID)
		}
	}
	delete(s.orders, id)
	return o, nil
}

func (s *stubOrderRepo) AddLineItem(ctx context.Context, it order.LineItem) (*order.LineItem, error) {
	if it.Quantity <= 0 {
		return nil, order.ErrQuantity
	}
	if _, ok := s.orders[it.OrderID]; !ok {
		return nil, order.ErrNotFound
	}
	s.nextItemID++
	it.ID = s.nextItemID
	s.items[it.ID] = &it
	cp := it
	return &cp, nil
}

func (s *stubOrderRepo) LineItem(ctx context.Context, id int64) (*order.LineItem, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, order.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *stubOrderRepo) DeleteLineItem(ctx context.Context, id int64) (*order.LineItem, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, order.ErrItemNotFound
	}
	delete(s.items, id)
	return it, nil
}

func (s *stubOrderRepo) LineItems(ctx context.Context) ([]order.LineItem, error) {
	out := make([]order.LineItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *it)
	}
	return out, nil
}

func (s *stubOrderRepo) DeleteAllLineItems(ctx context.Context) ([]order.LineItem, error) {
	out, _ := s.LineItems(ctx)
	s.items = make(map[int64]*order.LineItem)
	return out, nil
}

// stubProductRepo implements product.Repository; TopProducts aggregates over
// the order stub's line items the way the SQL does.
type stubProductRepo struct {
	nextID   int64
	products map[int64]*product.Product
	orders   *stubOrderRepo
}

func newStubProductRepo(orders *stubOrderRepo) *stubProductRepo {
	return &stubProductRepo{products: make(map[int64]*product.Product), orders: orders}
}

func (s *stubProductRepo) Index(ctx context.Context) ([]product.Product, error) {
	out := make([]product.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProductRepo) Show(ctx context.Context, id int64) (*product.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) Create(ctx context.Context, in product.CreateProduct) (*product.Product, error) {
	price, err := product.NormalizePrice(in.Price)
	if err != nil {
		return nil, err
	}
	s.nextID++
	p := &product.Product{ID: s.nextID, Name: in.Name, Price: price, Category: in.Category}
	s.products[p.ID] = p
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) Update(ctx context.Context, in product.UpdateProduct) (*product.Product, error) {
	p, ok := s.products[in.ID]
	if !ok {
		return nil, product.ErrNotFound
	}
	if in.Name == nil && in.Price == nil && in.Category == nil {
		return nil, product.ErrNoFields
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Price != nil {
		price, err := product.NormalizePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		p.Price = price
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id int64) (*product.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	delete(s.products, id)
	return p, nil
}

func (s *stubProductRepo) TopProducts(ctx context.Context) ([]product.TopProduct, error) {
	totals := make(map[int64]int64)
	for _, it := range s.orders.items {
		totals[it.ProductID] += int64(it.Quantity)
	}
	out := []product.TopProduct{}
	for id, total := range totals {
		p, ok := s.products[id]
		if !ok {
			continue
		}
		out = append(out, product.TopProduct{ID: id, Name: p.Name, TotalQuantity: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalQuantity > out[j].TotalQuantity })
	if len(out) > 5 {
		out = out[:5]
	}
	return out, nil
}

//
// ---------- HARNESS ----------
//

type testEnv struct {
	router   *gin.Engine
	tokens   *auth.TokenService
	users    *stubUserRepo
	orders   *stubOrderRepo
	products *stubProductRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	orders := newStubOrderRepo()
	products := newStubProductRepo(orders)
	users := newStubUserRepo(orders, products)
	return &testEnv{
		router:   newRouter(tokens, users, orders, products),
		tokens:   tokens,
		users:    users,
		orders:   orders,
		products: products,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signUp registers an account through the route and returns the token.
func (e *testEnv) signUp(t *testing.T, firstname, lastname, email, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/signup", "", map[string]string{
		"firstname": firstname, "lastname": lastname, "email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("signup body=%s err=%v", w.Body.String(), err)
	}
	return out.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}
