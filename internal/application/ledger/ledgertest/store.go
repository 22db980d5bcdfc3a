// Package ledgertest provee un almacén en memoria que cumple los puertos del libro de stock.
// Las transacciones se serializan y se revierten con un log de deshacer, de modo que
// los tests pueden verificar atomicidad y el update condicionado de stock sin PostgreSQL.
package ledgertest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/ledger"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

// Operaciones en las que se puede inyectar un fallo con FailOn.
const (
	OpCreateReceipt    = "receipt.create"
	OpCreateIssue      = "issue.create"
	OpIncreaseStock    = "product.increase"
	OpDeleteProduct    = "product.delete"
	OpUpdateInvoiceRef = "receipt.update_invoice"
)

// Store almacén en memoria. El valor cero no es usable; usar New.
type Store struct {
	txMu sync.Mutex // serializa transacciones
	mu   sync.Mutex // protege los mapas

	seq        int64
	products   map[int64]*entity.Product
	receipts   map[int64]*entity.Receipt
	issues     map[int64]*entity.Issue
	recipients map[int64]*entity.Recipient
	failures   map[string]error
	commits    int
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{
		products:   make(map[int64]*entity.Product),
		receipts:   make(map[int64]*entity.Receipt),
		issues:     make(map[int64]*entity.Issue),
		recipients: make(map[int64]*entity.Recipient),
		failures:   make(map[string]error),
	}
}

// FailOn hace que la operación op devuelva err hasta que se llame con err nil.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) failure(op string) error {
	return s.failures[op]
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// ── Helpers de test ────────────────────────────────────────────────────────

// AddProduct inserta un producto con el stock dado y devuelve su ID.
func (s *Store) AddProduct(name, manufacturer string, stock int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	now := time.Now()
	s.products[id] = &entity.Product{ID: id, Name: name, Manufacturer: manufacturer, StockQuantity: stock, CreatedAt: now, UpdatedAt: now}
	return id
}

// AddRecipient inserta un destinatário y devuelve su ID.
func (s *Store) AddRecipient(name, sector string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	s.recipients[id] = &entity.Recipient{ID: id, Name: name, Sector: sector, CreatedAt: time.Now()}
	return id
}

// Stock devuelve el stock actual del producto (-1 si no existe).
func (s *Store) Stock(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return -1
	}
	return p.StockQuantity
}

// Receipt devuelve una copia del recebimento o nil.
func (s *Store) Receipt(id int64) *entity.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.receipts[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

// Counts devuelve la cantidad de recebimentos, saídas y destinatários.
func (s *Store) Counts() (receipts, issues, recipients int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.receipts), len(s.issues), len(s.recipients)
}

// Commits cantidad de transacciones confirmadas.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// ── TxRunner ───────────────────────────────────────────────────────────────

type txState struct {
	undo []func()
}

// Run ejecuta fn con repos atados a una tx en memoria; si fn falla, deshace sus escrituras.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	receiptRepo repository.ReceiptRepository,
	issueRepo repository.IssueRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txState{}
	err := fn(&ProductRepo{s: s, tx: tx}, &ReceiptRepo{s: s, tx: tx}, &IssueRepo{s: s, tx: tx})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	s.commits++
	return nil
}

func (tx *txState) record(f func()) {
	if tx != nil {
		tx.undo = append(tx.undo, f)
	}
}

// Products repo fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Receipts repo fuera de transacción.
func (s *Store) Receipts() *ReceiptRepo { return &ReceiptRepo{s: s} }

// Issues repo fuera de transacción.
func (s *Store) Issues() *IssueRepo { return &IssueRepo{s: s} }

// Recipients repo de destinatários.
func (s *Store) Recipients() *RecipientRepo { return &RecipientRepo{s: s} }

// ── Productos ──────────────────────────────────────────────────────────────

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct {
	s  *Store
	tx *txState
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.products {
		if strings.EqualFold(other.Name, p.Name) {
			return domain.ErrDuplicate
		}
	}
	p.ID = r.s.nextID()
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var out []*entity.Product
	for _, p := range r.s.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Manufacturer != "" && p.Manufacturer != f.Manufacturer {
			continue
		}
		if search != "" && !containsAny(search, p.Name, p.Description, p.Category, p.Manufacturer) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.s.products {
		if id != p.ID && strings.EqualFold(other.Name, p.Name) {
			return domain.ErrDuplicate
		}
	}
	stock := cur.StockQuantity
	cp := *p
	cp.StockQuantity = stock
	cp.CreatedAt = cur.CreatedAt
	cp.UpdatedAt = time.Now()
	r.s.products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id int64) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpDeleteProduct); err != nil {
		return nil, err
	}
	if _, ok := r.s.products[id]; !ok {
		return nil, domain.ErrNotFound
	}
	for _, is := range r.s.issues {
		if is.ProductID == id {
			return nil, domain.ErrConflict
		}
	}
	delete(r.s.products, id)
	var refs []string
	for rid, rc := range r.s.receipts {
		if rc.ProductID == id {
			if rc.InvoiceRef != "" {
				refs = append(refs, rc.InvoiceRef)
			}
			delete(r.s.receipts, rid)
		}
	}
	sort.Strings(refs)
	return refs, nil
}

func (r *ProductRepo) Filters(_ context.Context) (*repository.ProductFilterOptions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var cats, mans, shelves, allocs []string
	for _, p := range r.s.products {
		cats = append(cats, p.Category)
		mans = append(mans, p.Manufacturer)
		shelves = append(shelves, p.Shelf)
		allocs = append(allocs, p.Allocation)
	}
	return &repository.ProductFilterOptions{
		Categories:    distinct(cats),
		Manufacturers: distinct(mans),
		Shelves:       distinct(shelves),
		Allocations:   distinct(allocs),
	}, nil
}

func (r *ProductRepo) IncreaseStock(_ context.Context, id int64, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpIncreaseStock); err != nil {
		return err
	}
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	// Igual que la columna INTEGER de Postgres.
	if !ledger.FitsStock(p.StockQuantity, quantity) {
		return domain.ErrInvalidInput
	}
	p.StockQuantity += quantity
	r.tx.record(func() { p.StockQuantity -= quantity })
	return nil
}

func (r *ProductRepo) DecreaseStock(_ context.Context, id int64, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.StockQuantity < quantity {
		return domain.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	r.tx.record(func() { p.StockQuantity += quantity })
	return nil
}

// ── Recebimentos ───────────────────────────────────────────────────────────

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación en memoria de repository.ReceiptRepository.
type ReceiptRepo struct {
	s  *Store
	tx *txState
}

func (r *ReceiptRepo) Create(_ context.Context, rc *entity.Receipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpCreateReceipt); err != nil {
		return err
	}
	if _, ok := r.s.products[rc.ProductID]; !ok {
		return domain.ErrNotFound
	}
	rc.ID = r.s.nextID()
	rc.CreatedAt = time.Now()
	cp := *rc
	r.s.receipts[rc.ID] = &cp
	id := rc.ID
	r.tx.record(func() { delete(r.s.receipts, id) })
	return nil
}

func (r *ReceiptRepo) GetByID(_ context.Context, id int64) (*entity.Receipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.receipts[id]
	if !ok {
		return nil, nil
	}
	cp := *rc
	return &cp, nil
}

func (r *ReceiptRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Receipt, error) {
	return r.GetByID(ctx, id)
}

func (r *ReceiptRepo) UpdateInvoiceRef(_ context.Context, id int64, ref string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpUpdateInvoiceRef); err != nil {
		return err
	}
	rc, ok := r.s.receipts[id]
	if !ok {
		return domain.ErrNotFound
	}
	old := rc.InvoiceRef
	rc.InvoiceRef = ref
	r.tx.record(func() { rc.InvoiceRef = old })
	return nil
}

func (r *ReceiptRepo) List(_ context.Context, f repository.ReceiptFilter) ([]*entity.ReceiptDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ReceiptDetail
	for _, rc := range r.s.receipts {
		if f.ProductID > 0 && rc.ProductID != f.ProductID {
			continue
		}
		d := &entity.ReceiptDetail{Receipt: *rc}
		if p, ok := r.s.products[rc.ProductID]; ok {
			d.ProductName, d.ProductDescription, d.ProductManufacturer = p.Name, p.Description, p.Manufacturer
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Limit, f.Offset), nil
}

// ── Saídas ─────────────────────────────────────────────────────────────────

var _ repository.IssueRepository = (*IssueRepo)(nil)

// IssueRepo implementación en memoria de repository.IssueRepository.
type IssueRepo struct {
	s  *Store
	tx *txState
}

func (r *IssueRepo) Create(_ context.Context, is *entity.Issue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpCreateIssue); err != nil {
		return err
	}
	is.ID = r.s.nextID()
	is.CreatedAt = time.Now()
	cp := *is
	r.s.issues[is.ID] = &cp
	id := is.ID
	r.tx.record(func() { delete(r.s.issues, id) })
	return nil
}

func (r *IssueRepo) List(_ context.Context, f repository.IssueFilter) ([]*entity.IssueDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.IssueDetail
	for _, is := range r.s.issues {
		if f.ProductID > 0 && is.ProductID != f.ProductID {
			continue
		}
		if f.RecipientID > 0 && is.RecipientID != f.RecipientID {
			continue
		}
		d := &entity.IssueDetail{Issue: *is}
		if p, ok := r.s.products[is.ProductID]; ok {
			d.ProductName, d.ProductDescription = p.Name, p.Description
		}
		if rc, ok := r.s.recipients[is.RecipientID]; ok {
			d.RecipientName, d.RecipientSector = rc.Name, rc.Sector
		}
		if f.Sector != "" && !containsAny(strings.ToLower(f.Sector), d.RecipientSector) {
			continue
		}
		if f.From != nil && is.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && is.CreatedAt.After(f.To.Add(24*time.Hour)) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *IssueRepo) ExistsForProduct(_ context.Context, productID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, is := range r.s.issues {
		if is.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// ── Destinatários ──────────────────────────────────────────────────────────

var _ repository.RecipientRepository = (*RecipientRepo)(nil)

// RecipientRepo implementación en memoria de repository.RecipientRepository.
type RecipientRepo struct {
	s *Store
}

func (r *RecipientRepo) GetByID(_ context.Context, id int64) (*entity.Recipient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.recipients[id]
	if !ok {
		return nil, nil
	}
	cp := *rc
	return &cp, nil
}

func (r *RecipientRepo) GetByNameAndSector(_ context.Context, name, sector string) (*entity.Recipient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.findRecipient(name, sector), nil
}

func (s *Store) findRecipient(name, sector string) *entity.Recipient {
	for _, rc := range s.recipients {
		if rc.Name == name && rc.Sector == sector {
			cp := *rc
			return &cp
		}
	}
	return nil
}

func (r *RecipientRepo) CreateIfAbsent(_ context.Context, name, sector string) (*entity.Recipient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.findRecipient(name, sector) != nil {
		return nil, nil
	}
	rc := &entity.Recipient{ID: r.s.nextID(), Name: name, Sector: sector, CreatedAt: time.Now()}
	r.s.recipients[rc.ID] = rc
	cp := *rc
	return &cp, nil
}

func (r *RecipientRepo) List(_ context.Context, search string) ([]*entity.Recipient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search = strings.ToLower(search)
	var out []*entity.Recipient
	for _, rc := range r.s.recipients {
		if search != "" && !containsAny(search, rc.Name, rc.Sector) {
			continue
		}
		cp := *rc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Sector < out[j].Sector
	})
	return out, nil
}

// ── utilidades ─────────────────────────────────────────────────────────────

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func distinct(values []string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
