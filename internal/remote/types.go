package remote

import (
	"fmt"
	"strings"

	"fsa_tracker/internal/visit"
)

// RouteSummary is one row of the rep's route list.
type RouteSummary struct {
	Name           string `json:"name"`
	Date           string `json:"route_date"`
	Status         string `json:"status"`
	TotalStops     int    `json:"total_stops"`
	CompletedStops int    `json:"completed_stops"`
}

// RouteExecution is the route document with its stop child table.
type RouteExecution struct {
	Name        string    `json:"name"`
	SalesPerson string    `json:"sales_person"`
	Date        string    `json:"route_date"`
	Status      string    `json:"status"`
	Stops       []StopDoc `json:"stops"`
}

// StopDoc is one row of the route's stop table.
type StopDoc struct {
	Name          string  `json:"name"`
	Sequence      int     `json:"sequence"`
	StopType      string  `json:"stop_type"`
	Status        string  `json:"status"`
	Customer      string  `json:"customer"`
	CustomerName  string  `json:"customer_name"`
	ReferenceName string  `json:"reference_name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	SkipReason    string  `json:"skip_reason"`
	Notes         string  `json:"notes"`
}

// ToRoute maps the remote document into the local route model.
func (r RouteExecution) ToRoute() (visit.Route, error) {
	route := visit.Route{ID: r.Name, Rep: r.SalesPerson, Date: r.Date}
	for _, d := range r.Stops {
		st, err := visit.ParseStopStatus(normalize(d.Status))
		if err != nil {
			return visit.Route{}, fmt.Errorf("stop %s: %w", d.Name, err)
		}
		typ, err := visit.ParseStopType(normalize(d.StopType))
		if err != nil {
			return visit.Route{}, fmt.Errorf("stop %s: %w", d.Name, err)
		}
		stop := visit.Stop{
			ID:             d.Name,
			RouteID:        r.Name,
			Sequence:       d.Sequence,
			Type:           typ,
			Status:         st,
			Customer:       d.Customer,
			CustomerName:   d.CustomerName,
			LinkedDocument: d.ReferenceName,
			SkipReason:     visit.SkipReason(d.SkipReason),
			Notes:          d.Notes,
		}
		if d.Latitude != 0 || d.Longitude != 0 {
			stop.Planned = &visit.Coordinates{Latitude: d.Latitude, Longitude: d.Longitude}
		}
		route.Stops = append(route.Stops, stop)
	}
	route.SortStops()
	return route, nil
}

// normalize turns "In Progress" into "in_progress".
func normalize(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

// StopStatusUpdate is sent on every stop transition. Absent GPS goes out as zero.
type StopStatusUpdate struct {
	Stop       string  `json:"stop"`
	Status     string  `json:"status"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Accuracy   float64 `json:"accuracy,omitempty"`
	SkipReason string  `json:"skip_reason,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// StopStatusResult is the acknowledged status.
type StopStatusResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// docCancelled is the Frappe docstatus of a cancelled document.
const docCancelled = 2

// DocStatus is shared by every activity document.
type DocStatus struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	State      int    `json:"docstatus"`
	SkipReason string `json:"skip_reason,omitempty"`
}

// Cancelled reports whether the document was withdrawn. A cancelled document
// leaves the activity to be done again.
func (d DocStatus) Cancelled() bool {
	return d.State == docCancelled || strings.EqualFold(d.Status, "cancelled")
}

// record maps the document onto the local activity state. Drafts count as
// completed: the save methods may keep a document in draft until the stop is
// closed.
func (d DocStatus) record(key visit.ActivityKey, summary string) visit.ActivityRecord {
	if d.Cancelled() {
		return visit.ActivityRecord{Key: key}
	}
	r := visit.ActivityRecord{Key: key, DocumentID: d.Name}
	if strings.EqualFold(d.Status, "skipped") {
		r.Skipped = true
		r.SkipReason = d.SkipReason
		return r
	}
	r.Completed = true
	r.Summary = summary
	return r
}

// ActivityDoc converts a fetched activity document into a local record.
type ActivityDoc interface {
	Record() visit.ActivityRecord
}

type Photo struct {
	FileName  string  `json:"file_name"`
	FileURL   string  `json:"file_url,omitempty"`
	Content   string  `json:"content,omitempty"`
	Caption   string  `json:"caption,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

type PhotosPayload struct {
	Stop   string  `json:"stop"`
	Photos []Photo `json:"photos" binding:"required,min=1,dive"`
}

type PhotosDoc struct {
	DocStatus
	PhotoCount int `json:"photo_count"`
}

func (d PhotosDoc) Record() visit.ActivityRecord {
	return d.record(visit.ActivityPhotos, fmt.Sprintf("%d photos", d.PhotoCount))
}

type StockCount struct {
	ItemCode   string  `json:"item_code" binding:"required"`
	Qty        float64 `json:"qty" binding:"gte=0"`
	UOM        string  `json:"uom,omitempty"`
	ExpiryDate string  `json:"expiry_date,omitempty"`
}

type StockOpnamePayload struct {
	Stop     string       `json:"stop"`
	Customer string       `json:"customer"`
	Items    []StockCount `json:"items" binding:"required,min=1,dive"`
}

type StockOpnameDoc struct {
	DocStatus
	ItemCount int `json:"item_count"`
}

func (d StockOpnameDoc) Record() visit.ActivityRecord {
	return d.record(visit.ActivityStockOpname, fmt.Sprintf("%d items counted", d.ItemCount))
}

type OrderItem struct {
	ItemCode string  `json:"item_code" binding:"required"`
	Qty      float64 `json:"qty" binding:"gt=0"`
	Rate     float64 `json:"rate,omitempty"`
	UOM      string  `json:"uom,omitempty"`
}

type OrderPayload struct {
	Stop         string      `json:"stop"`
	Customer     string      `json:"customer"`
	DeliveryDate string      `json:"delivery_date,omitempty"`
	Items        []OrderItem `json:"items" binding:"required,min=1,dive"`
}

type OrderDoc struct {
	DocStatus
	GrandTotal float64 `json:"grand_total"`
}

func (d OrderDoc) Record() visit.ActivityRecord {
	return d.record(visit.ActivitySalesOrder, fmt.Sprintf("Order %s (%.2f)", d.Name, d.GrandTotal))
}

type PaymentPayload struct {
	Stop      string   `json:"stop"`
	Customer  string   `json:"customer"`
	Amount    float64  `json:"paid_amount" binding:"gt=0"`
	Mode      string   `json:"mode_of_payment" binding:"required"`
	Reference string   `json:"reference_no,omitempty"`
	Invoices  []string `json:"invoices,omitempty"`
}

type PaymentDoc struct {
	DocStatus
	PaidAmount float64 `json:"paid_amount"`
	Mode       string  `json:"mode_of_payment"`
}

func (d PaymentDoc) Record() visit.ActivityRecord {
	return d.record(visit.ActivityPayment, fmt.Sprintf("Payment %s: %.2f via %s", d.Name, d.PaidAmount, d.Mode))
}

type SurveyEntry struct {
	Competitor string  `json:"competitor" binding:"required"`
	Product    string  `json:"product"`
	Price      float64 `json:"price,omitempty"`
	Promotion  string  `json:"promotion,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

type SurveyPayload struct {
	Stop     string        `json:"stop"`
	Customer string        `json:"customer"`
	Entries  []SurveyEntry `json:"entries" binding:"required,min=1,dive"`
}

type SurveyDoc struct {
	DocStatus
	EntryCount int `json:"entry_count"`
}

func (d SurveyDoc) Record() visit.ActivityRecord {
	return d.record(visit.ActivitySurvey, fmt.Sprintf("%d competitor entries", d.EntryCount))
}

// ActivitySkip persists a skipped soft activity.
type ActivitySkip struct {
	Stop     string `json:"stop"`
	Activity string `json:"activity"`
	Reason   string `json:"reason"`
}

// ProofOfDelivery is the evidence captured at a delivery stop.
type ProofOfDelivery struct {
	Stop         string  `json:"stop"`
	ReceiverName string  `json:"receiver_name" binding:"required"`
	Signature    string  `json:"signature" binding:"required"`
	Photo        string  `json:"photo,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Notes        string  `json:"notes,omitempty"`
}

type ProofOfDeliveryDoc struct {
	Name string `json:"name"`
}

// ScanResult is the backend's verdict on a scanned barcode or QR code.
type ScanResult struct {
	Valid    bool   `json:"valid"`
	ItemCode string `json:"item_code,omitempty"`
	ItemName string `json:"item_name,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Assignment is a delivery assignment handed to a driver.
type Assignment struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Route  string `json:"route,omitempty"`
}
