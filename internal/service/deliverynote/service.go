package deliverynote

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"weetzen-shop/internal/domain"
	ordersvc "weetzen-shop/internal/service/order"
)

//go:embed lieferschein.html.tmpl
var lieferscheinTmpl string

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

type profileRepo interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

// Service renders the branded Lieferschein for an order: pure read plus
// template substitution, no mutation.
type Service struct {
	orders   orderRepo
	profiles profileRepo
	tmpl     *template.Template
}

func New(orders orderRepo, profiles profileRepo) (*Service, error) {
	tmpl, err := template.New("lieferschein").Parse(lieferscheinTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse delivery note template: %w", err)
	}
	return &Service{orders: orders, profiles: profiles, tmpl: tmpl}, nil
}

type noteItem struct {
	Name      string
	Quantity  int
	UnitPrice string
	Total     string
}

type noteData struct {
	Number        string
	OrderDate     string
	DeliveryDate  string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	Items         []noteItem
	Total         string
	PaymentMethod string
	PaymentHint   string
}

// Render produces the HTML document and its download filename for the given
// order id. Unknown ids yield domain.ErrNotFound and no document.
func (s *Service) Render(ctx context.Context, orderID string) (string, []byte, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrNotFound
		}
		return "", nil, err
	}

	data := noteData{
		Number:        noteNumber(o.ID),
		OrderDate:     o.CreatedAt.Format("02.01.2006"),
		DeliveryDate:  time.Now().Format("02.01.2006"),
		CustomerName:  fallback(o.CustomerInfo.FullName, "Unbekannt"),
		CustomerEmail: fallback(o.CustomerInfo.Email, "Nicht angegeben"),
		CustomerPhone: fallback(o.CustomerInfo.Phone, "Nicht angegeben"),
		Address:       fallback(o.CustomerInfo.Address, "Nicht angegeben"),
		Total:         ordersvc.FormatEuros(o.TotalCents),
		PaymentMethod: "Kartenzahlung",
	}
	if o.PaymentMethod == domain.PaymentMethodCash {
		data.PaymentMethod = "Barzahlung bei Abholung"
		if o.PaymentStatus != domain.PaymentStatusCompleted {
			data.PaymentHint = "Zahlung offen – bar bei Abholung zu begleichen."
		}
	}

	// Checkout snapshot wins; the profile only fills gaps.
	if o.UserID != nil && s.profiles != nil {
		if p, err := s.profiles.Get(ctx, *o.UserID); err == nil {
			if o.CustomerInfo.FullName == "" && p.FullName != "" {
				data.CustomerName = p.FullName
			}
			if o.CustomerInfo.Email == "" && p.Email != "" {
				data.CustomerEmail = p.Email
			}
			if o.CustomerInfo.Phone == "" && p.Phone != "" {
				data.CustomerPhone = p.Phone
			}
			if o.CustomerInfo.Address == "" && p.Address != "" {
				data.Address = p.Address
			}
		}
	}

	for _, it := range o.Items {
		name := it.ProductName
		if name == "" {
			name = it.ProductID
		}
		data.Items = append(data.Items, noteItem{
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: ordersvc.FormatEuros(it.PriceCents),
			Total:     ordersvc.FormatEuros(it.PriceCents * int64(it.Quantity)),
		})
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", nil, fmt.Errorf("render delivery note: %w", err)
	}

	filename := fmt.Sprintf("Lieferschein_%s.html", firstEight(o.ID))
	return filename, buf.Bytes(), nil
}

func noteNumber(orderID string) string {
	return strings.ToUpper(firstEight(orderID))
}

func firstEight(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
