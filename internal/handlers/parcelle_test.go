package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/foncier-app/internal/models"
	"github.com/diewo77/foncier-app/internal/services"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Lotissement{}, &models.Ilot{}, &models.Parcelle{},
		&models.Acquereur{}, &models.ReservationParcelle{}, &models.Vente{},
		&models.TypeGestion{}, &models.Proprietaire{}, &models.Bien{}, &models.Locataire{}, &models.PaiementLoyer{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedLot(t *testing.T, db *gorm.DB) models.Lotissement {
	t.Helper()
	lot := models.Lotissement{Nom: "Cité des Palmiers", Ville: "Dakar"}
	if err := db.Create(&lot).Error; err != nil {
		t.Fatalf("lotissement: %v", err)
	}
	return lot
}

func seedParc(t *testing.T, db *gorm.DB, lotID uint, numero string) models.Parcelle {
	t.Helper()
	p := models.Parcelle{LotissementID: lotID, Numero: numero, Superficie: 300, Prix: 5_000_000, Statut: models.StatutDisponible}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("parcelle %s: %v", numero, err)
	}
	return p
}

func TestParcelleCreateAndListJSON(t *testing.T) {
	db := setupHandlerTestDB(t)
	lot := seedLot(t, db)
	h := NewParcelleHandler(db, services.NewParcelleService(db))

	body := fmt.Sprintf(`{"lotissement_id":%d,"numero":"A-01","superficie":300,"prix":5000000}`, lot.ID)
	req := httptest.NewRequest(http.MethodPost, "/parcelles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Parcelle
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 || created.Statut != models.StatutDisponible {
		t.Fatalf("unexpected parcelle: %+v", created)
	}

	listW := httptest.NewRecorder()
	h.List(listW, httptest.NewRequest(http.MethodGet, "/parcelles", nil))
	if listW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", listW.Code)
	}
	var list struct {
		Items []models.Parcelle `json:"items"`
		Total int64             `json:"total"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || list.Total != 1 {
		t.Fatalf("unexpected list: %#v", list)
	}
}

func TestParcelleCreateDuplicateNumero(t *testing.T) {
	db := setupHandlerTestDB(t)
	lot := seedLot(t, db)
	seedParc(t, db, lot.ID, "B-02")
	h := NewParcelleHandler(db, services.NewParcelleService(db))

	body := fmt.Sprintf(`{"lotissement_id":%d,"numero":"b-02","superficie":200,"prix":3000000}`, lot.ID)
	req := httptest.NewRequest(http.MethodPost, "/parcelles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "validation_failed" || resp.Details["numero"] != "already_used" {
		t.Fatalf("unexpected error body: %#v", resp)
	}
}

func TestParcelleListFilterByStatut(t *testing.T) {
	db := setupHandlerTestDB(t)
	lot := seedLot(t, db)
	seedParc(t, db, lot.ID, "C-01")
	p2 := seedParc(t, db, lot.ID, "C-02")
	if err := db.Model(&models.Parcelle{}).Where("id = ?", p2.ID).Update("statut", models.StatutVendue).Error; err != nil {
		t.Fatalf("force vendue: %v", err)
	}
	h := NewParcelleHandler(db, services.NewParcelleService(db))

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/parcelles?statut=disponible", nil))
	var list struct {
		Items []models.Parcelle `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Numero != "C-01" {
		t.Fatalf("unexpected filtered list: %#v", list.Items)
	}
}

func TestParcelleDeleteExcludedFromList(t *testing.T) {
	db := setupHandlerTestDB(t)
	lot := seedLot(t, db)
	p := seedParc(t, db, lot.ID, "D-01")
	h := NewParcelleHandler(db, services.NewParcelleService(db))

	w := httptest.NewRecorder()
	h.Delete(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/parcelles/delete?id=%d", p.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	listW := httptest.NewRecorder()
	h.List(listW, httptest.NewRequest(http.MethodGet, "/parcelles", nil))
	var list struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 0 {
		t.Fatalf("soft-deleted parcelle still listed: %#v", list)
	}
}
