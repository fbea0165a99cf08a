// Package render turns demand notices into PDF documents and payment QR
// codes and stores them in object storage.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strconv"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/MrJamesThe3rd/levy/internal/notice"
)

const qrSize = 256

type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Authority is the issuing body printed on every notice.
type Authority struct {
	Name    string
	Address string
	Contact string
}

type Renderer struct {
	store     Store
	authority Authority
}

func NewRenderer(store Store, authority Authority) *Renderer {
	return &Renderer{store: store, authority: authority}
}

// RenderQRCode encodes payload as a PNG QR code stored under key.
func (r *Renderer) RenderQRCode(ctx context.Context, key, payload string) (string, error) {
	img, err := QRCode(payload)
	if err != nil {
		return "", err
	}

	return r.store.Put(ctx, "notices/"+key+"/qr.png", "image/png", img)
}

// RenderNoticePDF lays out the notice with its QR code and stores the PDF.
func (r *Renderer) RenderNoticePDF(ctx context.Context, n *notice.Notice) (string, error) {
	doc, err := r.NoticePDF(n)
	if err != nil {
		return "", err
	}

	return r.store.Put(ctx, "notices/"+n.Number+"/notice.pdf", "application/pdf", doc)
}

func QRCode(payload string) ([]byte, error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}

	code, err = barcode.Scale(code, qrSize, qrSize)
	if err != nil {
		return nil, fmt.Errorf("scaling qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) NoticePDF(n *notice.Notice) ([]byte, error) {
	qrPNG, err := QRCode(notice.QRPayload(n))
	if err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		col.New(8).Add(
			text.New(r.authority.Name, props.Text{Size: 14, Style: fontstyle.Bold}),
			text.New(r.authority.Address, props.Text{Size: 9, Top: 7}),
			text.New(r.authority.Contact, props.Text{Size: 9, Top: 12}),
		),
		text.NewCol(4, "DEMAND NOTICE", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
	)

	m.AddRow(30,
		col.New(8).Add(
			text.New("Notice number: "+n.Number, props.Text{Style: fontstyle.Bold}),
			text.New("Issued: "+formatDate(n.IssueDate), props.Text{Top: 6}),
			text.New("Due: "+formatDate(n.DueDate), props.Text{Top: 12}),
			text.New("Revenue type: "+n.RevenueTypeCode, props.Text{Top: 18}),
		),
		image.NewFromBytesCol(4, qrPNG, extension.Png, props.Rect{Center: true, Percent: 95}),
	)

	m.AddRow(25,
		col.New(12).Add(
			text.New("Payer", props.Text{Style: fontstyle.Bold}),
			text.New(n.PayerName, props.Text{Top: 6}),
			text.New(contactLine(n), props.Text{Top: 11, Size: 9}),
		),
	)

	m.AddRow(15,
		text.NewCol(8, "Amount due", props.Text{Size: 12, Style: fontstyle.Bold, Top: 4}),
		text.NewCol(4, FormatNaira(n.AmountDue), props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right, Top: 4}),
	)

	m.AddRow(20,
		text.NewCol(12, "Pay online or by bank transfer quoting the notice number. Scan the QR code to pay. "+
			"Payment after the due date attracts reminders and enforcement.", props.Text{Size: 9, Top: 6}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating notice pdf: %w", err)
	}

	return doc.GetBytes(), nil
}

// FormatNaira prints a whole-naira amount with thousands separators.
func FormatNaira(amount int64) string {
	return "NGN " + groupThousands(amount)
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	s := strconv.FormatInt(n, 10)

	var out []byte

	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}

		out = append(out, c)
	}

	return sign + string(out)
}

func contactLine(n *notice.Notice) string {
	switch {
	case n.PayerPhone != "" && n.PayerEmail != "":
		return n.PayerPhone + " / " + n.PayerEmail
	case n.PayerPhone != "":
		return n.PayerPhone
	default:
		return n.PayerEmail
	}
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}
