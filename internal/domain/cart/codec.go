package cart

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// The persisted slot layout is a JSON array of line item objects with fields
// id, name, category, price, originalPrice, quantity, image, icon. Fields
// this codec does not know are preserved in LineItem.Extra and written back
// verbatim on encode.

// EncodeItems serializes a line item sequence into the slot layout.
func EncodeItems(items []LineItem) []byte {
	var e jx.Encoder
	e.ArrStart()
	for i := range items {
		EncodeItem(&e, items[i])
	}
	e.ArrEnd()
	return e.Bytes()
}

// EncodeItem writes a single line item object.
func EncodeItem(e *jx.Encoder, it LineItem) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(it.ID)
	e.FieldStart("name")
	e.Str(it.Name)
	e.FieldStart("category")
	e.Str(it.Category)
	e.FieldStart("price")
	e.Raw([]byte(it.Price.String()))
	if !it.OriginalPrice.IsZero() {
		e.FieldStart("originalPrice")
		e.Raw([]byte(it.OriginalPrice.String()))
	}
	e.FieldStart("quantity")
	e.Int(it.Quantity)
	if it.Image != "" {
		e.FieldStart("image")
		e.Str(it.Image)
	}
	if it.Icon != "" {
		e.FieldStart("icon")
		e.Str(it.Icon)
	}
	for k, raw := range it.Extra {
		e.FieldStart(k)
		e.Raw(raw)
	}
	e.ObjEnd()
}

// DecodeItems parses the slot layout back into line items.
func DecodeItems(data []byte) ([]LineItem, error) {
	d := jx.DecodeBytes(data)
	var items []LineItem
	if err := d.Arr(func(d *jx.Decoder) error {
		it, err := DecodeItem(d)
		if err != nil {
			return err
		}
		items = append(items, it)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode cart slot")
	}
	return items, nil
}

// DecodeItem parses a single line item object.
func DecodeItem(d *jx.Decoder) (LineItem, error) {
	var it LineItem
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			it.ID, err = d.Str()
		case "name":
			it.Name, err = d.Str()
		case "category":
			it.Category, err = d.Str()
		case "price":
			it.Price, err = decodeDecimal(d)
		case "originalPrice":
			it.OriginalPrice, err = decodeDecimal(d)
		case "quantity":
			it.Quantity, err = d.Int()
		case "image":
			it.Image, err = d.Str()
		case "icon":
			it.Icon, err = d.Str()
		default:
			// Opaque passthrough field.
			var raw jx.Raw
			raw, err = d.Raw()
			if err != nil {
				return err
			}
			if it.Extra == nil {
				it.Extra = make(map[string]jx.Raw)
			}
			it.Extra[string(key)] = append(jx.Raw(nil), raw...)
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	}); err != nil {
		return LineItem{}, err
	}
	return it, nil
}

// decodeDecimal reads a JSON number (or string-wrapped number) as a decimal.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	s := strings.Trim(string(n), `"`)
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse decimal")
	}
	return v, nil
}
