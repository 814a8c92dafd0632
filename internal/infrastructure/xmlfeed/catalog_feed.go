// Package xmlfeed serializa el catálogo de productos como feed XML y lo lee de vuelta para importaciones.
package xmlfeed

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/hortti-inventory/internal/application/catalog"
	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
)

// Namespace del feed.
const Namespace = "urn:hortti:catalog:1"

var _ catalog.FeedEncoder = (*CatalogFeed)(nil)

// CatalogFeed implementa catalog.FeedEncoder con etree.
type CatalogFeed struct{}

// NewCatalogFeed construye el encoder.
func NewCatalogFeed() *CatalogFeed { return &CatalogFeed{} }

// EncodeCatalog arma el documento <catalog> con un <product> por producto.
func (f *CatalogFeed) EncodeCatalog(_ context.Context, c *catalog.Catalog) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("catalog")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("title", c.Title)
	root.CreateAttr("generatedAt", c.GeneratedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(c.Products)))

	if c.Category != "" || c.Search != "" {
		filters := root.CreateElement("filters")
		if c.Category != "" {
			filters.CreateAttr("category", string(c.Category))
		}
		if c.Search != "" {
			filters.CreateAttr("search", c.Search)
		}
	}

	for _, p := range c.Products {
		el := root.CreateElement("product")
		el.CreateAttr("id", strconv.FormatInt(p.ID, 10))
		el.CreateAttr("category", string(p.Category))
		el.CreateAttr("active", strconv.FormatBool(p.Active))
		el.CreateElement("name").SetText(p.Name)
		el.CreateElement("price").SetText(p.Price.StringFixed(2))
		el.CreateElement("stock").SetText(strconv.Itoa(p.Stock))
		if p.ImageURL != "" {
			el.CreateElement("imageUrl").SetText(p.ImageURL)
		}
		if p.Description != "" {
			el.CreateElement("description").SetText(p.Description)
		}
		if !p.UpdatedAt.IsZero() {
			el.CreateElement("updatedAt").SetText(p.UpdatedAt.UTC().Format(time.RFC3339))
		}
	}

	doc.Indent(2)
	b, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlfeed: serializar: %w", err)
	}
	return b, nil
}

// Decode lee un feed (UTF-8 o ISO-8859-1) y devuelve los productos sin ID, listos para crear.
// Los productos sin atributo active se consideran activos.
func Decode(r io.Reader) ([]*entity.Product, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("xmlfeed: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "catalog" {
		return nil, fmt.Errorf("xmlfeed: se esperaba un elemento raíz <catalog>")
	}

	var out []*entity.Product
	for i, el := range root.SelectElements("product") {
		p, err := decodeProduct(el)
		if err != nil {
			return nil, fmt.Errorf("xmlfeed: producto #%d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeProduct(el *etree.Element) (*entity.Product, error) {
	category, err := entity.ParseCategory(el.SelectAttrValue("category", ""))
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(childText(el, "price"))
	if err != nil {
		return nil, fmt.Errorf("precio inválido: %w", err)
	}
	stock := 0
	if s := childText(el, "stock"); s != "" {
		if stock, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("stock inválido: %w", err)
		}
	}
	active := true
	if a := el.SelectAttrValue("active", ""); a != "" {
		if active, err = strconv.ParseBool(a); err != nil {
			return nil, fmt.Errorf("active inválido: %w", err)
		}
	}
	return &entity.Product{
		Name:        childText(el, "name"),
		Category:    category,
		Price:       price,
		Stock:       stock,
		ImageURL:    childText(el, "imageUrl"),
		Description: childText(el, "description"),
		Active:      active,
	}, nil
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToUpper(charset) {
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	default:
		return input, nil
	}
}
