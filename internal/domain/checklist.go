package domain

import "time"

type ChecklistStatus string

const (
	ChecklistStatusDraft        ChecklistStatus = "draft"
	ChecklistStatusTenantSigned ChecklistStatus = "tenant_signed"
	ChecklistStatusCompleted    ChecklistStatus = "completed"
)

type ChecklistItem struct {
	Name      string   `json:"name"`
	Condition string   `json:"condition"`
	Notes     string   `json:"notes"`
	PhotoURLs []string `json:"photo_urls"`
}

type ChecklistRoom struct {
	Name  string          `json:"name"`
	Items []ChecklistItem `json:"items"`
}

// Checklist is the move-in condition record, one per contract.
type Checklist struct {
	ChecklistID string          `json:"checklist_id"`
	ContractID  string          `json:"contract_id"`
	Rooms       []ChecklistRoom `json:"rooms"`
	Status      ChecklistStatus `json:"status"`

	TenantSignature   *Signature `json:"tenant_signature,omitempty"`
	LandlordSignature *Signature `json:"landlord_signature,omitempty"`
	LandlordNotes     string     `json:"landlord_notes,omitempty"`

	Deadline    time.Time  `json:"deadline"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChecklistTemplate is the landlord-authored reusable structure. Templates
// describe rooms and items only; per-instance condition data on a template
// is ignored at instancing time.
type ChecklistTemplate struct {
	TemplateID string          `json:"template_id"`
	LandlordID string          `json:"landlord_id"`
	Name       string          `json:"name"`
	Rooms      []ChecklistRoom `json:"rooms"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// InstantiateChecklist deep-copies the template structure into a fresh
// checklist for the contract. Condition, notes and photos are reset
// unconditionally, whatever the template carried. The template itself is
// never touched.
func InstantiateChecklist(tpl ChecklistTemplate, checklistID, contractID string, deadline, now time.Time) Checklist {
	rooms := make([]ChecklistRoom, 0, len(tpl.Rooms))
	for _, room := range tpl.Rooms {
		items := make([]ChecklistItem, 0, len(room.Items))
		for _, item := range room.Items {
			items = append(items, ChecklistItem{
				Name:      item.Name,
				Condition: "",
				Notes:     "",
				PhotoURLs: []string{},
			})
		}
		rooms = append(rooms, ChecklistRoom{Name: room.Name, Items: items})
	}
	return Checklist{
		ChecklistID: checklistID,
		ContractID:  contractID,
		Rooms:       rooms,
		Status:      ChecklistStatusDraft,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
