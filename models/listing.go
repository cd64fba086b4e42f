package models

import (
	"encoding/json"
	"time"
)

// RawListing mirrors a listing record exactly as the marketplace API sends
// it. The backend has gone through several schema revisions, so most
// concepts exist under more than one field name and a few fields change
// type between records (string vs number, string vs object). Polymorphic
// members are kept as json.RawMessage and resolved by the normalize
// package; nothing outside that boundary should touch a RawListing.
type RawListing struct {
	ID    json.RawMessage `json:"_id"` // plain string or {"$oid": "..."}
	AltID string          `json:"id"`

	TipoModelo           string `json:"tipoModelo"`
	FabricanteCarroceria string `json:"fabricanteCarroceria"`
	ModeloCarroceria     string `json:"modeloCarroceria"`
	FabricanteChassis    string `json:"fabricanteChassis"`
	ModeloChassis        string `json:"modeloChassis"`
	AnoModelo            string `json:"anoModelo"`
	Cor                  string `json:"cor"`
	Descricao            string `json:"descricao"`

	// Mileage spellings, oldest records first migrated to the newest name.
	KilometragemAtual json.RawMessage `json:"kilometragemAtual"`
	Kilometragem      json.RawMessage `json:"kilometragem"`
	KM                json.RawMessage `json:"km"`
	Rodagem           json.RawMessage `json:"rodagem"`

	QuantidadeLugares json.RawMessage `json:"quantidadeLugares"`
	Lugares           json.RawMessage `json:"lugares"`

	Valor  json.RawMessage `json:"valor"` // number or pt-BR formatted string
	Status string          `json:"status"`

	FotoCapaThumb string            `json:"fotoCapaThumb"`
	FotoCapaURL   string            `json:"fotoCapaUrl"`
	CapaURL       string            `json:"capaUrl"`
	Imagens       []json.RawMessage `json:"imagens"`
	Fotos         []json.RawMessage `json:"fotos"`
	Images        []json.RawMessage `json:"images"`
	ImagensCount  int               `json:"imagensCount"`

	Localizacao struct {
		Cidade string `json:"cidade"`
		Estado string `json:"estado"`
	} `json:"localizacao"`

	NomeAnunciante string `json:"nomeAnunciante"`
	Anunciante     string `json:"anunciante"` // WhatsApp link on new records, display name on old ones
	Telefone       string `json:"telefone"`
	TelefoneBruto  string `json:"telefoneBruto"`
	Email          string `json:"email"`

	DataCadastro string `json:"dataCadastro"` // dd/mm/yyyy display date
	DataEnvio    string `json:"dataEnvio"`
	CreatedAt    string `json:"createdAt"`
	CriadoEm     string `json:"criadoEm"`
	UpdatedAt    string `json:"updatedAt"`
	AtualizadoEm string `json:"atualizadoEm"`
}

// Listing is the canonical in-memory shape every page works against.
// Produced only by normalize.Decode.
type Listing struct {
	ID string `json:"id"`

	Category     string `json:"category"` // body type family (tipoModelo)
	BodyMaker    string `json:"body_maker"`
	BodyModel    string `json:"body_model"`
	ChassisMaker string `json:"chassis_maker"`
	ChassisModel string `json:"chassis_model"`
	ModelYear    string `json:"model_year"`
	Color        string `json:"color"`
	Description  string `json:"description"`

	// Mileage is the advertiser's free text, untouched ("48 mil km
	// rodados" stays that way). Seats likewise.
	Mileage string `json:"mileage"`
	Seats   string `json:"seats"`

	Price    float64 `json:"price"`     // 0 when unparsable, for sorting
	RawPrice string  `json:"raw_price"` // original text, for edit forms

	Status string `json:"status"`

	Cover      string   `json:"cover"` // "" means no image, never a broken src
	Images     []string `json:"images"`
	ImageCount int      `json:"image_count"`

	City  string `json:"city"`
	State string `json:"state"`

	AdvertiserName string `json:"advertiser_name"`
	Phone          string `json:"phone"`
	PhoneDigits    string `json:"phone_digits"`
	Email          string `json:"email"`
	WhatsAppLink   string `json:"whatsapp_link"`
	RegisteredAt   string `json:"registered_at"`

	SentAt    time.Time `json:"sent_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListingMeta is the lightweight projection served by /anuncios/{id}/meta
// for fast first paint. No embedded images.
type ListingMeta struct {
	ID           json.RawMessage `json:"_id"`
	Kilometragem json.RawMessage `json:"kilometragem"`
	ImagensCount int             `json:"imagensCount"`
	Status       string          `json:"status"`
	Valor        json.RawMessage `json:"valor"`
}

// ListingUpdate is the editable subset sent on PUT /anuncios/{id}.
// Images are deliberately absent: photos cannot change after creation.
type ListingUpdate struct {
	FabricanteCarroceria string      `json:"fabricanteCarroceria"`
	ModeloCarroceria     string      `json:"modeloCarroceria"`
	FabricanteChassis    string      `json:"fabricanteChassis"`
	ModeloChassis        string      `json:"modeloChassis"`
	Kilometragem         interface{} `json:"kilometragem"`
	Lugares              interface{} `json:"lugares"`
	Cor                  string      `json:"cor"`
	AnoModelo            string      `json:"anoModelo"`
	Valor                interface{} `json:"valor"`
	Descricao            string      `json:"descricao"`
	NomeAnunciante       string      `json:"nomeAnunciante"`
	TelefoneBruto        string      `json:"telefoneBruto"`
	Email                string      `json:"email"`
	Localizacao          struct {
		Cidade string `json:"cidade"`
		Estado string `json:"estado"`
	} `json:"localizacao"`
	Status    string `json:"status"`
	DataEnvio string `json:"dataEnvio"`
}

// AdvertiserGroup is the moderation view's unit: one inferred advertiser
// and everything they posted. Derived in memory, never persisted.
type AdvertiserGroup struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	RegisteredAt string    `json:"registered_at"`
	Listings     []Listing `json:"listings"`
}

// AdminPage is the envelope of GET /admin?page&limit.
type AdminPage struct {
	Data         []RawListing `json:"data"`
	Total        int          `json:"total"`
	PaginaAtual  int          `json:"paginaAtual"`
	TotalPaginas int          `json:"totalPaginas"`
}

// Session is the advertiser login snapshot the browser used to keep in
// localStorage under ad hoc keys.
type Session struct {
	Name         string
	Phone        string
	PhoneDigits  string
	Email        string
	WhatsAppLink string
	LoggedInAt   time.Time
}
