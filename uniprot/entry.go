// Package uniprot models UniProtKB dump entries.
package uniprot

import (
	"strings"

	uderrors "github.com/jacoelho/unidump/errors"
	"github.com/jacoelho/unidump/pkg/xmlstream"
)

// Dataset identifies the UniProtKB section an entry belongs to.
type Dataset int

const (
	SwissProt Dataset = iota + 1
	TrEMBL
)

// String returns the dataset's XML attribute value.
func (d Dataset) String() string {
	switch d {
	case SwissProt:
		return "Swiss-Prot"
	case TrEMBL:
		return "TrEMBL"
	default:
		return "unknown"
	}
}

func parseDataset(st xmlstream.StartElement, value string) (Dataset, error) {
	switch value {
	case "Swiss-Prot":
		return SwissProt, nil
	case "TrEMBL":
		return TrEMBL, nil
	default:
		return 0, uderrors.NewParsef(uderrors.ErrInvalidValue, st.Name, "invalid dataset %q", value)
	}
}

// Entry is one UniProtKB record. Entries are fully built by one decode
// call and never mutated afterwards.
type Entry struct {
	Dataset          Dataset
	Created          string
	Modified         string
	Version          int
	Accessions       []string
	Names            []string
	Protein          Protein
	Genes            []Gene
	Organism         Organism
	ProteinExistence string
	DbReferences     []DbReference
	Keywords         []Keyword
	Sequence         Sequence
}

// UnmarshalStream builds the entry from its start event.
func (e *Entry) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	dataset, err := start.RequiredAttr("dataset")
	if err != nil {
		return err
	}
	if e.Dataset, err = parseDataset(start, dataset); err != nil {
		return err
	}
	e.Created, _ = start.Attr("created")
	e.Modified, _ = start.Attr("modified")
	if e.Version, _, err = start.IntAttr("version"); err != nil {
		return err
	}

	var seenProtein, seenOrganism, seenSequence bool
	err = c.Children(start,
		xmlstream.Handle("accession", func(st xmlstream.StartElement) error {
			accession, err := c.TextString(st)
			if err != nil {
				return err
			}
			e.Accessions = append(e.Accessions, accession)
			return nil
		}),
		xmlstream.Handle("name", func(st xmlstream.StartElement) error {
			name, err := c.TextString(st)
			if err != nil {
				return err
			}
			e.Names = append(e.Names, name)
			return nil
		}),
		xmlstream.Handle("protein", func(st xmlstream.StartElement) error {
			if seenProtein {
				return duplicate(start, "protein")
			}
			seenProtein = true
			return e.Protein.UnmarshalStream(c, st)
		}),
		xmlstream.Handle("gene", func(st xmlstream.StartElement) error {
			var gene Gene
			if err := gene.UnmarshalStream(c, st); err != nil {
				return err
			}
			e.Genes = append(e.Genes, gene)
			return nil
		}),
		xmlstream.Handle("organism", func(st xmlstream.StartElement) error {
			if seenOrganism {
				return duplicate(start, "organism")
			}
			seenOrganism = true
			return e.Organism.UnmarshalStream(c, st)
		}),
		xmlstream.Handle("proteinExistence", func(st xmlstream.StartElement) error {
			kind, err := st.RequiredAttr("type")
			if err != nil {
				return err
			}
			e.ProteinExistence = kind
			return c.Children(st)
		}),
		xmlstream.Handle("dbReference", func(st xmlstream.StartElement) error {
			var ref DbReference
			if err := ref.UnmarshalStream(c, st); err != nil {
				return err
			}
			e.DbReferences = append(e.DbReferences, ref)
			return nil
		}),
		xmlstream.Handle("keyword", func(st xmlstream.StartElement) error {
			var kw Keyword
			if err := kw.UnmarshalStream(c, st); err != nil {
				return err
			}
			e.Keywords = append(e.Keywords, kw)
			return nil
		}),
		xmlstream.Handle("sequence", func(st xmlstream.StartElement) error {
			if seenSequence {
				return duplicate(start, "sequence")
			}
			seenSequence = true
			return e.Sequence.UnmarshalStream(c, st)
		}),
	)
	if err != nil {
		return err
	}

	if len(e.Accessions) == 0 {
		return missing(start, "accession")
	}
	if len(e.Names) == 0 {
		return missing(start, "name")
	}
	if !seenProtein {
		return missing(start, "protein")
	}
	if !seenOrganism {
		return missing(start, "organism")
	}
	if !seenSequence {
		return missing(start, "sequence")
	}
	return nil
}

// Protein groups the names a protein is known by.
type Protein struct {
	Recommended *ProteinName
	Alternative []ProteinName
	Submitted   []ProteinName
}

func (p *Protein) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	return c.Children(start,
		xmlstream.Handle("recommendedName", func(st xmlstream.StartElement) error {
			if p.Recommended != nil {
				return duplicate(start, "recommendedName")
			}
			var name ProteinName
			if err := name.UnmarshalStream(c, st); err != nil {
				return err
			}
			p.Recommended = &name
			return nil
		}),
		xmlstream.Handle("alternativeName", func(st xmlstream.StartElement) error {
			var name ProteinName
			if err := name.UnmarshalStream(c, st); err != nil {
				return err
			}
			p.Alternative = append(p.Alternative, name)
			return nil
		}),
		xmlstream.Handle("submittedName", func(st xmlstream.StartElement) error {
			var name ProteinName
			if err := name.UnmarshalStream(c, st); err != nil {
				return err
			}
			p.Submitted = append(p.Submitted, name)
			return nil
		}),
	)
}

// ProteinName is one recommended, alternative or submitted name group.
type ProteinName struct {
	Full  string
	Short []string
	EC    []string
}

func (n *ProteinName) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	err := c.Children(start,
		xmlstream.Handle("fullName", func(st xmlstream.StartElement) error {
			full, err := c.TextString(st)
			if err != nil {
				return err
			}
			n.Full = full
			return nil
		}),
		xmlstream.Handle("shortName", func(st xmlstream.StartElement) error {
			short, err := c.TextString(st)
			if err != nil {
				return err
			}
			n.Short = append(n.Short, short)
			return nil
		}),
		xmlstream.Handle("ecNumber", func(st xmlstream.StartElement) error {
			ec, err := c.TextString(st)
			if err != nil {
				return err
			}
			n.EC = append(n.EC, ec)
			return nil
		}),
	)
	if err != nil {
		return err
	}
	if n.Full == "" {
		return missing(start, "fullName")
	}
	return nil
}

// GeneNameType classifies a gene name.
type GeneNameType int

const (
	GeneNamePrimary GeneNameType = iota + 1
	GeneNameSynonym
	GeneNameOrderedLocus
	GeneNameORF
)

func parseGeneNameType(st xmlstream.StartElement, value string) (GeneNameType, error) {
	switch value {
	case "primary":
		return GeneNamePrimary, nil
	case "synonym":
		return GeneNameSynonym, nil
	case "ordered locus":
		return GeneNameOrderedLocus, nil
	case "ORF":
		return GeneNameORF, nil
	default:
		return 0, uderrors.NewParsef(uderrors.ErrInvalidValue, st.Name, "invalid gene name type %q", value)
	}
}

// Gene is one gene with its set of names.
type Gene struct {
	Names []GeneName
}

func (g *Gene) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	err := c.Children(start,
		xmlstream.Handle("name", func(st xmlstream.StartElement) error {
			kind, err := st.RequiredAttr("type")
			if err != nil {
				return err
			}
			nameType, err := parseGeneNameType(st, kind)
			if err != nil {
				return err
			}
			value, err := c.TextString(st)
			if err != nil {
				return err
			}
			g.Names = append(g.Names, GeneName{Value: value, Type: nameType})
			return nil
		}),
	)
	if err != nil {
		return err
	}
	if len(g.Names) == 0 {
		return missing(start, "name")
	}
	return nil
}

// GeneName is one name of a gene.
type GeneName struct {
	Value string
	Type  GeneNameType
}

// Organism is the source organism of an entry.
type Organism struct {
	Scientific string
	Common     string
	Synonyms   []string
	Taxonomy   string
	Lineage    []string
}

func (o *Organism) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	return c.Children(start,
		xmlstream.Handle("name", func(st xmlstream.StartElement) error {
			kind, err := st.RequiredAttr("type")
			if err != nil {
				return err
			}
			value, err := c.TextString(st)
			if err != nil {
				return err
			}
			switch kind {
			case "scientific":
				o.Scientific = value
			case "common":
				o.Common = value
			default:
				o.Synonyms = append(o.Synonyms, value)
			}
			return nil
		}),
		xmlstream.Handle("dbReference", func(st xmlstream.StartElement) error {
			kind, err := st.RequiredAttr("type")
			if err != nil {
				return err
			}
			id, err := st.RequiredAttr("id")
			if err != nil {
				return err
			}
			if kind == "NCBI Taxonomy" {
				o.Taxonomy = id
			}
			return c.Children(st)
		}),
		xmlstream.Handle("lineage", func(st xmlstream.StartElement) error {
			return c.Children(st,
				xmlstream.Handle("taxon", func(taxon xmlstream.StartElement) error {
					value, err := c.TextString(taxon)
					if err != nil {
						return err
					}
					o.Lineage = append(o.Lineage, value)
					return nil
				}),
			)
		}),
	)
}

// DbReference is a cross-reference to another database.
type DbReference struct {
	Type       string
	ID         string
	Properties []Property
}

func (d *DbReference) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	var err error
	if d.Type, err = start.RequiredAttr("type"); err != nil {
		return err
	}
	if d.ID, err = start.RequiredAttr("id"); err != nil {
		return err
	}
	return c.Children(start,
		xmlstream.Handle("property", func(st xmlstream.StartElement) error {
			var prop Property
			if err := prop.UnmarshalStream(c, st); err != nil {
				return err
			}
			d.Properties = append(d.Properties, prop)
			return nil
		}),
	)
}

// Property is a typed key/value annotation on a cross-reference.
type Property struct {
	Type  string
	Value string
}

func (p *Property) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	var err error
	if p.Type, err = start.RequiredAttr("type"); err != nil {
		return err
	}
	if p.Value, err = start.RequiredAttr("value"); err != nil {
		return err
	}
	return c.Children(start)
}

// Keyword is a controlled-vocabulary keyword.
type Keyword struct {
	ID    string
	Value string
}

func (k *Keyword) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	var err error
	if k.ID, err = start.RequiredAttr("id"); err != nil {
		return err
	}
	if k.Value, err = c.TextString(start); err != nil {
		return err
	}
	return nil
}

// Sequence is the canonical protein sequence with its metadata.
type Sequence struct {
	Length   int
	Mass     int
	Version  int
	Modified string
	Checksum string
	Value    string
}

func (s *Sequence) UnmarshalStream(c *xmlstream.Cursor, start xmlstream.StartElement) error {
	var err error
	if s.Length, err = start.RequiredIntAttr("length"); err != nil {
		return err
	}
	if s.Checksum, err = start.RequiredAttr("checksum"); err != nil {
		return err
	}
	if s.Mass, _, err = start.IntAttr("mass"); err != nil {
		return err
	}
	if s.Version, _, err = start.IntAttr("version"); err != nil {
		return err
	}
	s.Modified, _ = start.Attr("modified")
	text, err := c.Text(start)
	if err != nil {
		return err
	}
	s.Value = foldSequence(text)
	return nil
}

// foldSequence strips the line breaks and padding the dump format wraps
// sequence data with.
func foldSequence(text []byte) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, ch := range text {
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func missing(start xmlstream.StartElement, child string) error {
	return uderrors.NewParsef(uderrors.ErrMissingElement, start.Name, "missing element <%s>", child)
}

func duplicate(start xmlstream.StartElement, child string) error {
	return uderrors.NewParsef(uderrors.ErrDuplicateElement, start.Name, "duplicate element <%s>", child)
}
