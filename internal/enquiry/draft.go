package enquiry

// PurchaseType says why the buyer is enquiring.
type PurchaseType string

const (
	PurchasePersonal  PurchaseType = "personal"
	PurchaseWholesale PurchaseType = "wholesale"
	PurchaseOther     PurchaseType = "other"
)

// FormKind distinguishes the flows sharing the engine.
type FormKind string

const (
	KindProductEnquiry       FormKind = "product_enquiry"
	KindWorkshopRegistration FormKind = "workshop_registration"
)

// Draft holds the editable buyer fields of one open form cycle.
// CompanyName is required exactly when the purchase type is wholesale.
type Draft struct {
	Name         string       `json:"name" validate:"required,max=100"`
	Email        string       `json:"email" validate:"required,email"`
	Phone        string       `json:"phone" validate:"required,dialable"`
	Location     string       `json:"location" validate:"required,max=300"`
	Quantity     int          `json:"quantity" validate:"min=1"`
	PurchaseType PurchaseType `json:"purchase_type" validate:"required,oneof=personal wholesale other"`
	CompanyName  string       `json:"company_name" validate:"required_if=PurchaseType wholesale,omitempty,max=200"`
	Message      string       `json:"message" validate:"omitempty,max=500"`
}

// FormContext carries the write-once fields set when the form is opened.
type FormContext struct {
	Kind            FormKind `json:"kind"`
	ProductID       string   `json:"product_id,omitempty"`
	ProductName     string   `json:"product_name,omitempty"`
	ProductImage    string   `json:"product_image,omitempty"`
	VariantLabel    string   `json:"variant_label,omitempty"`
	Unit            string   `json:"unit,omitempty"`
	WorkshopID      string   `json:"workshop_id,omitempty"`
	WorkshopName    string   `json:"workshop_name,omitempty"`
	DefaultQuantity int      `json:"default_quantity"`
}

// Payload is the document handed to the collector on a validated submit.
// CompanyName and Message are omitted entirely when not applicable.
type Payload struct {
	Kind         FormKind     `json:"kind"`
	ProductID    string       `json:"product_id,omitempty"`
	ProductName  string       `json:"product_name,omitempty"`
	ProductImage string       `json:"product_image,omitempty"`
	VariantLabel string       `json:"variant_label,omitempty"`
	Unit         string       `json:"unit,omitempty"`
	WorkshopID   string       `json:"workshop_id,omitempty"`
	WorkshopName string       `json:"workshop_name,omitempty"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Location     string       `json:"location"`
	Quantity     int          `json:"quantity"`
	PurchaseType PurchaseType `json:"purchase_type"`
	CompanyName  string       `json:"company_name,omitempty"`
	Message      string       `json:"message,omitempty"`
}

func buildPayload(fc FormContext, d Draft) Payload {
	p := Payload{
		Kind:         fc.Kind,
		ProductID:    fc.ProductID,
		ProductName:  fc.ProductName,
		ProductImage: fc.ProductImage,
		VariantLabel: fc.VariantLabel,
		Unit:         fc.Unit,
		WorkshopID:   fc.WorkshopID,
		WorkshopName: fc.WorkshopName,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Location:     d.Location,
		Quantity:     d.Quantity,
		PurchaseType: d.PurchaseType,
		Message:      d.Message,
	}
	if d.PurchaseType == PurchaseWholesale {
		p.CompanyName = d.CompanyName
	}
	return p
}
