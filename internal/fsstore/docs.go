package fsstore

import (
	"time"

	"github.com/erazemk/oprema/internal/model"
)

type distributionDoc struct {
	Type      string    `firestore:"type"`
	TargetID  string    `firestore:"targetId"`
	Quantity  int64     `firestore:"quantity"`
	Name      string    `firestore:"name,omitempty"`
	Timestamp time.Time `firestore:"timestamp"`
}

type itemDoc struct {
	Name          string            `firestore:"name"`
	Category      string            `firestore:"category"`
	Model         string            `firestore:"model"`
	Size          string            `firestore:"size"`
	Status        string            `firestore:"status"`
	Quantity      int64             `firestore:"quantity"`
	BatchID       string            `firestore:"batchId,omitempty"`
	Number        *int64            `firestore:"number,omitempty"`
	Distributions []distributionDoc `firestore:"distributions"`
	AssignedType  string            `firestore:"assignedType,omitempty"`
	AssignedTo    string            `firestore:"assignedTo,omitempty"`
	CreatedAt     time.Time         `firestore:"createdAt"`
	UpdatedAt     time.Time         `firestore:"updatedAt"`
}

func newItemDoc(item model.Item) itemDoc {
	doc := itemDoc{
		Name:          item.Name,
		Category:      item.Category,
		Model:         item.Model,
		Size:          item.Size,
		Status:        item.Status,
		Quantity:      int64(item.Quantity),
		BatchID:       item.BatchID,
		Distributions: make([]distributionDoc, len(item.Distributions)),
		AssignedType:  item.AssignedType,
		AssignedTo:    item.AssignedTo,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	if item.Number != nil {
		n := int64(*item.Number)
		doc.Number = &n
	}
	for i, d := range item.Distributions {
		doc.Distributions[i] = distributionDoc{
			Type:      d.Type,
			TargetID:  d.TargetID,
			Quantity:  int64(d.Quantity),
			Name:      d.Name,
			Timestamp: d.Timestamp,
		}
	}
	return doc
}

func (d itemDoc) item(id string) model.Item {
	item := model.Item{
		ID:            id,
		Name:          d.Name,
		Category:      d.Category,
		Model:         d.Model,
		Size:          d.Size,
		Status:        d.Status,
		Quantity:      int(d.Quantity),
		BatchID:       d.BatchID,
		Distributions: make([]model.Distribution, len(d.Distributions)),
		AssignedType:  d.AssignedType,
		AssignedTo:    d.AssignedTo,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Number != nil {
		n := int(*d.Number)
		item.Number = &n
	}
	for i, dd := range d.Distributions {
		item.Distributions[i] = model.Distribution{
			Type:      dd.Type,
			TargetID:  dd.TargetID,
			Quantity:  int(dd.Quantity),
			Name:      dd.Name,
			Timestamp: dd.Timestamp,
		}
	}
	return item
}

type matchDoc struct {
	Date      string    `firestore:"date"`
	Time      string    `firestore:"time"`
	Category  string    `firestore:"category"`
	Opponent  string    `firestore:"opponent"`
	FieldIDs  []string  `firestore:"fieldIds"`
	RefCenter string    `firestore:"refCenter"`
	RefAsst1  string    `firestore:"refAsst1"`
	RefAsst2  string    `firestore:"refAsst2"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func newMatchDoc(m model.Match) matchDoc {
	fields := m.FieldIDs
	if fields == nil {
		fields = []string{}
	}
	return matchDoc{
		Date:      m.Date,
		Time:      m.Time,
		Category:  m.Category,
		Opponent:  m.Opponent,
		FieldIDs:  fields,
		RefCenter: m.RefCenter,
		RefAsst1:  m.RefAsst1,
		RefAsst2:  m.RefAsst2,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (d matchDoc) match(id string) model.Match {
	fields := d.FieldIDs
	if fields == nil {
		fields = []string{}
	}
	return model.Match{
		ID:        id,
		Date:      d.Date,
		Time:      d.Time,
		Category:  d.Category,
		Opponent:  d.Opponent,
		FieldIDs:  fields,
		RefCenter: d.RefCenter,
		RefAsst1:  d.RefAsst1,
		RefAsst2:  d.RefAsst2,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type memberDoc struct {
	Name      string    `firestore:"name"`
	Category  string    `firestore:"category"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func newMemberDoc(m model.Member) memberDoc {
	return memberDoc{Name: m.Name, Category: m.Category, CreatedAt: m.CreatedAt}
}

func (d memberDoc) member(memberType, id string) model.Member {
	return model.Member{ID: id, Type: memberType, Name: d.Name, Category: d.Category, CreatedAt: d.CreatedAt}
}
