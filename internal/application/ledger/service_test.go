package ledger_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almoxerife-api/internal/application/ledger"
	"github.com/jhoicas/almoxerife-api/internal/application/ledger/ledgertest"
	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
	"github.com/jhoicas/almoxerife-api/internal/infrastructure/storage"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store *ledgertest.Store
	fs    afero.Fs
	files *storage.InvoiceStore
	svc   *ledger.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := ledgertest.New()
	mem := afero.NewMemMapFs()
	files := storage.NewInvoiceStore(mem, "/uploads")
	svc := ledger.NewService(st, st.Products(), st.Receipts(), st.Issues(), st.Recipients(), files)
	return &fixture{store: st, fs: mem, files: files, svc: svc}
}

// invoiceCount cuenta los archivos guardados en notas-fiscais.
func (f *fixture) invoiceCount(t *testing.T) int {
	t.Helper()
	entries, err := afero.ReadDir(f.fs, "/uploads/"+storage.InvoiceDir)
	if err != nil {
		return 0
	}
	return len(entries)
}

func pdf(content string) *ledger.InvoiceFile {
	return &ledger.InvoiceFile{Filename: "nota.pdf", Data: []byte("%PDF-1.4\n" + content)}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// failingStorage storage cuyo Delete siempre falla (para verificar el borrado best-effort).
type failingStorage struct {
	ledger.InvoiceStorage
}

func (failingStorage) Delete(context.Context, string) error {
	return errors.New("disco no disponible")
}

// ─────────────────────────────────────────────────────────────────────────────
// RegisterReceipt
// ─────────────────────────────────────────────────────────────────────────────

func TestRegisterReceipt_IncrementaStockYCalculaTotal(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Luva nitrílica", "3M", 2)

	res, err := f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{
		ProductID: pid, Quantity: 4, UnitValue: dec("2.50"),
	})
	require.NoError(t, err)

	assert.NotZero(t, res.ID)
	assert.True(t, res.TotalValue.Equal(dec("10.00")), "total = q × u")
	assert.Equal(t, "3M", res.Supplier)
	assert.Empty(t, res.InvoiceRef)
	assert.Equal(t, 6, f.store.Stock(pid))

	stored := f.store.Receipt(res.ID)
	require.NotNil(t, stored)
	assert.True(t, stored.UnitValue.Equal(dec("2.50")))
	assert.True(t, stored.TotalValue.Equal(dec("10.00")))
}

func TestRegisterReceipt_ProveedorNoInformado(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Parafuso", "  ", 0)

	res, err := f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("0.10")})
	require.NoError(t, err)
	assert.Equal(t, "Não informado", res.Supplier)
}

func TestRegisterReceipt_Validacion(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Cabo", "", 0)

	tests := []struct {
		name string
		in   ledger.ReceiptInput
	}{
		{"sin producto", ledger.ReceiptInput{Quantity: 1, UnitValue: dec("1")}},
		{"cantidad cero", ledger.ReceiptInput{ProductID: pid, Quantity: 0, UnitValue: dec("1")}},
		{"cantidad negativa", ledger.ReceiptInput{ProductID: pid, Quantity: -3, UnitValue: dec("1")}},
		{"valor cero", ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: decimal.Zero}},
		{"valor que redondea a cero", ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("0.004")}},
		{"valor negativo", ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("-2")}},
		{"unitario excede NUMERIC(10,2)", ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("100000000")}},
		{"total excede NUMERIC(12,2)", ledger.ReceiptInput{ProductID: pid, Quantity: 1000, UnitValue: dec("99999999")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RegisterReceipt(context.Background(), tt.in)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "err = %v", err)
		})
	}
	assert.Equal(t, 0, f.store.Stock(pid))
}

func TestRegisterReceipt_CantidadFueraDeRangoInteger(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Arruela", "", 0)

	// Total pequeño (≈ 21,5 mi) pero la cantidad no cabe en INTEGER.
	_, err := f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{
		ProductID: pid, Quantity: math.MaxInt32 + 1, UnitValue: dec("0.01"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.store.Stock(pid))
	receipts, _, _ := f.store.Counts()
	assert.Zero(t, receipts)
}

func TestRegisterReceipt_StockResultanteExcedeInteger(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Arruela", "", math.MaxInt32-1)

	_, err := f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{ProductID: pid, Quantity: 2, UnitValue: dec("0.01")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, math.MaxInt32-1, f.store.Stock(pid))

	_, err = f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("0.01")})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, f.store.Stock(pid))

	// El repo también rechaza el desborde aunque no pase por la verificación previa.
	assert.ErrorIs(t, f.store.Products().IncreaseStock(context.Background(), pid, 1), domain.ErrInvalidInput)
	assert.Equal(t, math.MaxInt32, f.store.Stock(pid))
}

func TestRegisterReceipt_ProductoInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{ProductID: 999, Quantity: 1, UnitValue: dec("1"), Invoice: pdf("x")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	receipts, _, _ := f.store.Counts()
	assert.Zero(t, receipts, "no se inserta ninguna fila")
	assert.Zero(t, f.invoiceCount(t), "no se guarda el archivo")
}

func TestRegisterReceipt_ConNotaFiscal(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Disjuntor", "WEG", 0)

	res, err := f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{
		ProductID: pid, Quantity: 2, UnitValue: dec("35.90"), Invoice: pdf("nf 123"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.InvoiceRef, storage.InvoiceDir+"/nota-fiscal-"))
	assert.True(t, strings.HasSuffix(res.InvoiceRef, ".pdf"))
	assert.Equal(t, res.InvoiceRef, f.store.Receipt(res.ID).InvoiceRef, "la fila guarda la referencia, no los bytes")

	rc, rec, err := f.svc.OpenInvoice(context.Background(), res.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Contains(t, string(body), "nf 123")
	assert.Equal(t, res.ID, rec.ID)
}

func TestRegisterReceipt_ArchivoInvalidoAntesDeMutar(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Fita", "", 5)

	tests := []struct {
		name   string
		file   *ledger.InvoiceFile
		tooBig bool
	}{
		{"no es PDF", &ledger.InvoiceFile{Filename: "nota.pdf", Data: []byte("GIF89a....")}, false},
		{"texto plano", &ledger.InvoiceFile{Filename: "nota.pdf", Data: []byte("hola")}, false},
		{"supera 10 MiB", &ledger.InvoiceFile{Filename: "nota.pdf", Data: append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), ledger.MaxInvoiceSize)...)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("1"), Invoice: tt.file})
			assert.True(t, errors.Is(err, domain.ErrInvalidFile), "err = %v", err)
			assert.Equal(t, tt.tooBig, errors.Is(err, domain.ErrFileTooLarge))
		})
	}

	receipts, _, _ := f.store.Counts()
	assert.Zero(t, receipts)
	assert.Equal(t, 5, f.store.Stock(pid))
	assert.Zero(t, f.invoiceCount(t))
}

func TestRegisterReceipt_ExactamenteDiezMiBSeAcepta(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Tinta", "", 0)
	data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), ledger.MaxInvoiceSize-9)...)
	require.Len(t, data, ledger.MaxInvoiceSize)

	_, err := f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("1"), Invoice: &ledger.InvoiceFile{Data: data}})
	assert.NoError(t, err)
}

func TestRegisterReceipt_ArchivoVacioEquivaleASinNota(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Lixa", "", 0)

	res, err := f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("1"), Invoice: &ledger.InvoiceFile{Filename: "vazio.pdf"}})
	require.NoError(t, err)
	assert.Empty(t, res.InvoiceRef)
}

func TestRegisterReceipt_FalloEnTxRevierteYBorraArchivo(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Broca", "Bosch", 3)
	f.store.FailOn(ledgertest.OpIncreaseStock, domain.ErrStorage)

	_, err := f.svc.RegisterReceipt(context.Background(), ledger.ReceiptInput{ProductID: pid, Quantity: 2, UnitValue: dec("4.00"), Invoice: pdf("x")})
	assert.True(t, errors.Is(err, domain.ErrStorage))

	receipts, _, _ := f.store.Counts()
	assert.Zero(t, receipts, "el insert se revierte junto con el ajuste de stock")
	assert.Equal(t, 3, f.store.Stock(pid))
	assert.Zero(t, f.invoiceCount(t), "el archivo guardado se elimina")
}

// ─────────────────────────────────────────────────────────────────────────────
// RegisterIssue
// ─────────────────────────────────────────────────────────────────────────────

func TestRegisterIssue_DecrementaStock(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Capacete", "", 10)
	rid := f.store.AddRecipient("Maria", "Manutenção")

	res, err := f.svc.RegisterIssue(context.Background(), ledger.IssueInput{ProductID: pid, Quantity: 3, RecipientID: rid, Notes: "troca"})
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, 7, f.store.Stock(pid))
}

func TestRegisterIssue_TodoElStockSePermite(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Bota", "", 4)
	rid := f.store.AddRecipient("João", "Obras")

	_, err := f.svc.RegisterIssue(context.Background(), ledger.IssueInput{ProductID: pid, Quantity: 4, RecipientID: rid})
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.Stock(pid))
}

func TestRegisterIssue_StockInsuficienteNoModifica(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Óculos", "", 5)
	rid := f.store.AddRecipient("Ana", "Laboratório")

	_, err := f.svc.RegisterIssue(context.Background(), ledger.IssueInput{ProductID: pid, Quantity: 6, RecipientID: rid})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 5, f.store.Stock(pid))
	_, issues, _ := f.store.Counts()
	assert.Zero(t, issues)
}

func TestRegisterIssue_Validacion(t *testing.T) {
	f := newFixture(t)
	for _, in := range []ledger.IssueInput{
		{Quantity: 1, RecipientID: 1},
		{ProductID: 1, Quantity: 0, RecipientID: 1},
		{ProductID: 1, Quantity: -1, RecipientID: 1},
		{ProductID: 1, Quantity: 1},
		{ProductID: 1, Quantity: math.MaxInt32 + 1, RecipientID: 1},
	} {
		_, err := f.svc.RegisterIssue(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "input %+v", in)
	}
}

func TestRegisterIssue_ReferenciasInexistentes(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Máscara", "", 10)
	rid := f.store.AddRecipient("Pedro", "TI")

	_, err := f.svc.RegisterIssue(context.Background(), ledger.IssueInput{ProductID: pid, Quantity: 1, RecipientID: 999})
	assert.True(t, errors.Is(err, domain.ErrNotFound), "destinatario inexistente")

	_, err = f.svc.RegisterIssue(context.Background(), ledger.IssueInput{ProductID: 999, Quantity: 1, RecipientID: rid})
	assert.True(t, errors.Is(err, domain.ErrNotFound), "producto inexistente")

	_, issues, _ := f.store.Counts()
	assert.Zero(t, issues)
	assert.Equal(t, 10, f.store.Stock(pid))
}

func TestRegisterIssue_FalloEnInsertNoTocaStock(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Protetor", "", 8)
	rid := f.store.AddRecipient("Luiz", "Solda")
	f.store.FailOn(ledgertest.OpCreateIssue, domain.ErrStorage)

	_, err := f.svc.RegisterIssue(context.Background(), ledger.IssueInput{ProductID: pid, Quantity: 2, RecipientID: rid})
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.Equal(t, 8, f.store.Stock(pid))
}

func TestRegisterIssue_ConcurrentesSoloUnaGana(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Extintor", "", 5)
	rid := f.store.AddRecipient("Brigada", "Segurança")

	const workers = 2
	var wg sync.WaitGroup
	errs := make([]error, workers)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.RegisterIssue(context.Background(), ledger.IssueInput{ProductID: pid, Quantity: 5, RecipientID: rid})
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 0, f.store.Stock(pid), "el stock nunca queda negativo")
	_, issues, _ := f.store.Counts()
	assert.Equal(t, 1, issues)
}

func TestRegisterIssue_MuchasConcurrentesNuncaNegativo(t *testing.T) {
	f := newFixture(t)
	pid := f.store.AddProduct("Cone", "", 20)
	rid := f.store.AddRecipient("Pátio", "Logística")

	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.RegisterIssue(context.Background(), ledger.IssueInput{ProductID: pid, Quantity: 3, RecipientID: rid}); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, success, "20 / 3 = 6 saídas posibles")
	assert.Equal(t, 2, f.store.Stock(pid))
}

// ─────────────────────────────────────────────────────────────────────────────
// Escenario completo
// ─────────────────────────────────────────────────────────────────────────────

func TestLedger_EscenarioSaidaYRecebimento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.store.AddProduct("Papel A4", "Chamex", 10)
	rid := f.store.AddRecipient("Secretaria", "Administração")

	_, err := f.svc.RegisterIssue(ctx, ledger.IssueInput{ProductID: pid, Quantity: 3, RecipientID: rid})
	require.NoError(t, err)
	assert.Equal(t, 7, f.store.Stock(pid))

	res, err := f.svc.RegisterReceipt(ctx, ledger.ReceiptInput{ProductID: pid, Quantity: 4, UnitValue: dec("2.50")})
	require.NoError(t, err)
	assert.Equal(t, 11, f.store.Stock(pid))
	assert.Equal(t, "10.00", res.TotalValue.StringFixed(2))

	_, err = f.svc.RegisterIssue(ctx, ledger.IssueInput{ProductID: pid, Quantity: 12, RecipientID: rid})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "q = stock + 1 se rechaza")
	assert.Equal(t, 11, f.store.Stock(pid))
}

// ─────────────────────────────────────────────────────────────────────────────
// AttachOrReplaceInvoice
// ─────────────────────────────────────────────────────────────────────────────

func TestAttachOrReplaceInvoice_AdjuntaYReemplaza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.store.AddProduct("Tomada", "Tramontina", 0)
	res, err := f.svc.RegisterReceipt(ctx, ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("9.99")})
	require.NoError(t, err)

	first, err := f.svc.AttachOrReplaceInvoice(ctx, res.ID, pdf("primera"))
	require.NoError(t, err)
	assert.Equal(t, first, f.store.Receipt(res.ID).InvoiceRef)
	assert.Equal(t, 1, f.invoiceCount(t))

	second, err := f.svc.AttachOrReplaceInvoice(ctx, res.ID, pdf("segunda"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, second, f.store.Receipt(res.ID).InvoiceRef)
	assert.Equal(t, 1, f.invoiceCount(t), "el archivo anterior se elimina")

	_, err = f.files.Open(ctx, first)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAttachOrReplaceInvoice_ArchivoInvalidoNoAlteraFila(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.store.AddProduct("Lâmpada", "", 0)
	res, err := f.svc.RegisterReceipt(ctx, ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("5"), Invoice: pdf("original")})
	require.NoError(t, err)

	_, err = f.svc.AttachOrReplaceInvoice(ctx, res.ID, &ledger.InvoiceFile{Data: []byte("PK\x03\x04 zip")})
	assert.True(t, errors.Is(err, domain.ErrInvalidFile))

	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("b"), ledger.MaxInvoiceSize)...)
	_, err = f.svc.AttachOrReplaceInvoice(ctx, res.ID, &ledger.InvoiceFile{Data: big})
	assert.True(t, errors.Is(err, domain.ErrFileTooLarge))

	assert.Equal(t, res.InvoiceRef, f.store.Receipt(res.ID).InvoiceRef)
	assert.Equal(t, 1, f.invoiceCount(t))
}

func TestAttachOrReplaceInvoice_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AttachOrReplaceInvoice(ctx, 404, pdf("x"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	pid := f.store.AddProduct("Fio", "", 0)
	res, err := f.svc.RegisterReceipt(ctx, ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("1")})
	require.NoError(t, err)

	_, err = f.svc.AttachOrReplaceInvoice(ctx, res.ID, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = f.svc.AttachOrReplaceInvoice(ctx, res.ID, &ledger.InvoiceFile{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAttachOrReplaceInvoice_FalloEnUpdateBorraArchivoNuevo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.store.AddProduct("Plug", "", 0)
	res, err := f.svc.RegisterReceipt(ctx, ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("1"), Invoice: pdf("v1")})
	require.NoError(t, err)

	f.store.FailOn(ledgertest.OpUpdateInvoiceRef, domain.ErrStorage)
	_, err = f.svc.AttachOrReplaceInvoice(ctx, res.ID, pdf("v2"))
	assert.True(t, errors.Is(err, domain.ErrStorage))

	assert.Equal(t, res.InvoiceRef, f.store.Receipt(res.ID).InvoiceRef)
	assert.Equal(t, 1, f.invoiceCount(t), "solo queda el archivo original")
}

func TestAttachOrReplaceInvoice_BorradoDelAnteriorEsBestEffort(t *testing.T) {
	st := ledgertest.New()
	files := storage.NewInvoiceStore(afero.NewMemMapFs(), "/uploads")
	svc := ledger.NewService(st, st.Products(), st.Receipts(), st.Issues(), st.Recipients(), failingStorage{files})
	ctx := context.Background()

	pid := st.AddProduct("Chave", "", 0)
	res, err := svc.RegisterReceipt(ctx, ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("1"), Invoice: pdf("v1")})
	require.NoError(t, err)

	ref, err := svc.AttachOrReplaceInvoice(ctx, res.ID, pdf("v2"))
	require.NoError(t, err, "un fallo al borrar el archivo anterior no es fatal")
	assert.Equal(t, ref, st.Receipt(res.ID).InvoiceRef)
}

// ─────────────────────────────────────────────────────────────────────────────
// EnsureRecipient
// ─────────────────────────────────────────────────────────────────────────────

func TestEnsureRecipient_Idempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, created, err := f.svc.EnsureRecipient(ctx, "  Carlos ", "Almoxarifado ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Carlos", first.Name)
	assert.Equal(t, "Almoxarifado", first.Sector)

	second, created, err := f.svc.EnsureRecipient(ctx, "Carlos", "Almoxarifado")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, recipients := f.store.Counts()
	assert.Equal(t, 1, recipients)
}

func TestEnsureRecipient_MismoNombreOtroSector(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, _, err := f.svc.EnsureRecipient(ctx, "Carlos", "Almoxarifado")
	require.NoError(t, err)
	b, created, err := f.svc.EnsureRecipient(ctx, "Carlos", "Compras")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEnsureRecipient_Validacion(t *testing.T) {
	f := newFixture(t)
	for _, pair := range [][2]string{{"", "TI"}, {"Ana", ""}, {"   ", "  "}} {
		_, _, err := f.svc.EnsureRecipient(context.Background(), pair[0], pair[1])
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "par %q", pair)
	}
}

func TestEnsureRecipient_ConcurrenteCreaUnaFila(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	ids := make([]int64, 10)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, _, err := f.svc.EnsureRecipient(context.Background(), "Equipe", "Noturno")
			if err == nil {
				ids[i] = r.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	_, _, recipients := f.store.Counts()
	assert.Equal(t, 1, recipients)
}

// ─────────────────────────────────────────────────────────────────────────────
// Consultas
// ─────────────────────────────────────────────────────────────────────────────

func TestListados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := f.store.AddProduct("Prego", "Gerdau", 10)
	p2 := f.store.AddProduct("Martelo", "Tramontina", 10)
	r1 := f.store.AddRecipient("Bruno", "Obras")
	r2 := f.store.AddRecipient("Carla", "Escritório")

	_, err := f.svc.RegisterReceipt(ctx, ledger.ReceiptInput{ProductID: p1, Quantity: 1, UnitValue: dec("1")})
	require.NoError(t, err)
	_, err = f.svc.RegisterReceipt(ctx, ledger.ReceiptInput{ProductID: p2, Quantity: 1, UnitValue: dec("1")})
	require.NoError(t, err)
	_, err = f.svc.RegisterIssue(ctx, ledger.IssueInput{ProductID: p1, Quantity: 1, RecipientID: r1})
	require.NoError(t, err)
	_, err = f.svc.RegisterIssue(ctx, ledger.IssueInput{ProductID: p2, Quantity: 1, RecipientID: r2})
	require.NoError(t, err)

	receipts, err := f.svc.ListReceipts(ctx, repository.ReceiptFilter{ProductID: p1})
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, "Prego", receipts[0].ProductName)
	assert.Equal(t, "Gerdau", receipts[0].ProductManufacturer)

	issues, err := f.svc.ListIssues(ctx, repository.IssueFilter{Sector: " obr "})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Bruno", issues[0].RecipientName)

	recipients, err := f.svc.ListRecipients(ctx, "")
	require.NoError(t, err)
	require.Len(t, recipients, 2)
	assert.Equal(t, "Bruno", recipients[0].Name, "ordenados por nome")
}

func TestOpenInvoice_SinNota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.store.AddProduct("Rolo", "", 0)
	res, err := f.svc.RegisterReceipt(ctx, ledger.ReceiptInput{ProductID: pid, Quantity: 1, UnitValue: dec("1")})
	require.NoError(t, err)

	_, _, err = f.svc.OpenInvoice(ctx, res.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, _, err = f.svc.OpenInvoice(ctx, 12345)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
