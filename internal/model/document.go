package model

// Document statuses managed by the signing API.
const (
	StatusPending   = "pending"
	StatusSigned    = "signed"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Signer statuses.
const (
	SignerPending  = "pending"
	SignerSigned   = "signed"
	SignerDeclined = "declined"
)

// Document is a record served by the API. Every field is server-owned;
// the client never sends a Document back, only a DocumentInput.
type Document struct {
	ID            int64     `json:"id"`
	OpenID        int64     `json:"openID"`
	Token         string    `json:"token"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	CreatedAt     Timestamp `json:"created_at"`
	LastUpdatedAt Timestamp `json:"last_updated_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CompanyID     int64     `json:"company_id,omitempty"`
	ExternalID    string    `json:"externalID,omitempty"`
	Signers       []Signer  `json:"signers"`
}

// Signer is a person asked to sign a document. DocumentID is a lookup
// reference to the owning document.
type Signer struct {
	ID         int64  `json:"id"`
	Token      string `json:"token"`
	Status     string `json:"status"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ExternalID string `json:"externalID"`
	DocumentID int64  `json:"documentID"`
}

// FirstSigner returns the first signer of the document, if any.
func (d Document) FirstSigner() (Signer, bool) {
	if len(d.Signers) == 0 {
		return Signer{}, false
	}
	return d.Signers[0], true
}

// DocumentInput is the payload the client is allowed to submit.
// ID is only set on updates and is omitted from create requests.
type DocumentInput struct {
	ID              int64  `json:"id,omitempty"`
	Name            string `json:"name"`
	URLDocumento    string `json:"url_documento"`
	NomeSignatario  string `json:"nome_signatario"`
	EmailSignatario string `json:"email_signatario"`
}
