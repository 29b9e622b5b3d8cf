package uniprot

import (
	"strings"
	"testing"

	uderrors "github.com/jacoelho/unidump/errors"
)

const sampleEntry = `<entry dataset="Swiss-Prot" created="2011-06-28" modified="2022-08-03" version="55">
  <accession>P0DI82</accession>
  <accession>B2RU92</accession>
  <name>TR112_HUMAN</name>
  <protein>
    <recommendedName>
      <fullName>Multifunctional methyltransferase subunit TRM112-like protein</fullName>
      <shortName>TRM112</shortName>
    </recommendedName>
    <alternativeName>
      <fullName>tRNA methyltransferase 112 homolog</fullName>
    </alternativeName>
  </protein>
  <gene>
    <name type="primary">TRMT112</name>
    <name type="synonym">TRM112</name>
    <name type="ORF">HSPC152</name>
  </gene>
  <organism>
    <name type="scientific">Homo sapiens</name>
    <name type="common">Human</name>
    <dbReference type="NCBI Taxonomy" id="9606"/>
    <lineage>
      <taxon>Eukaryota</taxon>
      <taxon>Metazoa</taxon>
    </lineage>
  </organism>
  <proteinExistence type="evidence at protein level"/>
  <dbReference type="EMBL" id="AK000891">
    <property type="protein sequence ID" value="BAA91410.1"/>
    <property type="molecule type" value="mRNA"/>
  </dbReference>
  <keyword id="KW-0963">Cytoplasm</keyword>
  <sequence length="125" mass="14190" checksum="14A41C1A0D8EB13C" modified="2011-06-28" version="1">MKFLTHNLLS
SHVRGVVSRA</sequence>
</entry>`

func TestDecodeEntry(t *testing.T) {
	entry, err := DecodeEntry(strings.NewReader(sampleEntry))
	if err != nil {
		t.Fatalf("DecodeEntry() error = %v", err)
	}

	if entry.Dataset != SwissProt {
		t.Errorf("Dataset = %v, want %v", entry.Dataset, SwissProt)
	}
	if entry.Version != 55 {
		t.Errorf("Version = %d, want 55", entry.Version)
	}
	if got, want := len(entry.Accessions), 2; got != want {
		t.Fatalf("len(Accessions) = %d, want %d", got, want)
	}
	if entry.Accessions[0] != "P0DI82" {
		t.Errorf("Accessions[0] = %q, want %q", entry.Accessions[0], "P0DI82")
	}
	if got, want := entry.Names[0], "TR112_HUMAN"; got != want {
		t.Errorf("Names[0] = %q, want %q", got, want)
	}

	if entry.Protein.Recommended == nil {
		t.Fatal("Protein.Recommended is nil")
	}
	if got := entry.Protein.Recommended.Full; !strings.HasPrefix(got, "Multifunctional") {
		t.Errorf("Recommended.Full = %q", got)
	}
	if got, want := len(entry.Protein.Recommended.Short), 1; got != want {
		t.Errorf("len(Recommended.Short) = %d, want %d", got, want)
	}
	if got, want := len(entry.Protein.Alternative), 1; got != want {
		t.Errorf("len(Protein.Alternative) = %d, want %d", got, want)
	}

	if got, want := len(entry.Genes), 1; got != want {
		t.Fatalf("len(Genes) = %d, want %d", got, want)
	}
	names := entry.Genes[0].Names
	if got, want := len(names), 3; got != want {
		t.Fatalf("len(Genes[0].Names) = %d, want %d", got, want)
	}
	if names[0].Type != GeneNamePrimary || names[0].Value != "TRMT112" {
		t.Errorf("Names[0] = %+v", names[0])
	}
	if names[2].Type != GeneNameORF {
		t.Errorf("Names[2].Type = %v, want %v", names[2].Type, GeneNameORF)
	}

	if entry.Organism.Scientific != "Homo sapiens" {
		t.Errorf("Organism.Scientific = %q", entry.Organism.Scientific)
	}
	if entry.Organism.Taxonomy != "9606" {
		t.Errorf("Organism.Taxonomy = %q, want %q", entry.Organism.Taxonomy, "9606")
	}
	if got, want := len(entry.Organism.Lineage), 2; got != want {
		t.Errorf("len(Organism.Lineage) = %d, want %d", got, want)
	}

	if entry.ProteinExistence != "evidence at protein level" {
		t.Errorf("ProteinExistence = %q", entry.ProteinExistence)
	}

	if got, want := len(entry.DbReferences), 1; got != want {
		t.Fatalf("len(DbReferences) = %d, want %d", got, want)
	}
	ref := entry.DbReferences[0]
	if ref.Type != "EMBL" || ref.ID != "AK000891" {
		t.Errorf("DbReferences[0] = %+v", ref)
	}
	if got, want := len(ref.Properties), 2; got != want {
		t.Errorf("len(Properties) = %d, want %d", got, want)
	}

	if got, want := len(entry.Keywords), 1; got != want {
		t.Fatalf("len(Keywords) = %d, want %d", got, want)
	}
	if entry.Keywords[0].ID != "KW-0963" || entry.Keywords[0].Value != "Cytoplasm" {
		t.Errorf("Keywords[0] = %+v", entry.Keywords[0])
	}

	if entry.Sequence.Length != 125 {
		t.Errorf("Sequence.Length = %d, want 125", entry.Sequence.Length)
	}
	if entry.Sequence.Checksum != "14A41C1A0D8EB13C" {
		t.Errorf("Sequence.Checksum = %q", entry.Sequence.Checksum)
	}
	if got, want := entry.Sequence.Value, "MKFLTHNLLSSHVRGVVSRA"; got != want {
		t.Errorf("Sequence.Value = %q, want %q", got, want)
	}
}

func TestDecodeEntrySkipsUnknownChildren(t *testing.T) {
	const doc = `<entry dataset="TrEMBL">
  <accession>A0A000</accession>
  <name>TEST_ENTRY</name>
  <protein><submittedName><fullName>Test protein</fullName></submittedName></protein>
  <organism><name type="scientific">Escherichia coli</name></organism>
  <comment type="function"><text>Unmapped free text.</text></comment>
  <feature type="chain" description="whole"><location><begin position="1"/><end position="10"/></location></feature>
  <sequence length="10" checksum="0011223344556677">MKAAAAAAAA</sequence>
</entry>`

	entry, err := DecodeEntry(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeEntry() error = %v", err)
	}
	if entry.Dataset != TrEMBL {
		t.Errorf("Dataset = %v, want %v", entry.Dataset, TrEMBL)
	}
	if got, want := len(entry.Protein.Submitted), 1; got != want {
		t.Errorf("len(Protein.Submitted) = %d, want %d", got, want)
	}
	if entry.Sequence.Value != "MKAAAAAAAA" {
		t.Errorf("Sequence.Value = %q", entry.Sequence.Value)
	}
}

func TestDecodeEntryErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code uderrors.ErrorCode
	}{
		{
			name: "missing dataset attribute",
			doc:  `<entry><accession>P1</accession></entry>`,
			code: uderrors.ErrMissingAttribute,
		},
		{
			name: "invalid dataset",
			doc:  `<entry dataset="PDB"><accession>P1</accession></entry>`,
			code: uderrors.ErrInvalidValue,
		},
		{
			name: "missing accession",
			doc: `<entry dataset="Swiss-Prot">
  <name>N</name>
  <protein><recommendedName><fullName>F</fullName></recommendedName></protein>
  <organism><name type="scientific">S</name></organism>
  <sequence length="1" checksum="00">M</sequence>
</entry>`,
			code: uderrors.ErrMissingElement,
		},
		{
			name: "duplicate protein",
			doc: `<entry dataset="Swiss-Prot">
  <accession>P1</accession>
  <name>N</name>
  <protein><recommendedName><fullName>F</fullName></recommendedName></protein>
  <protein><recommendedName><fullName>G</fullName></recommendedName></protein>
  <organism><name type="scientific">S</name></organism>
  <sequence length="1" checksum="00">M</sequence>
</entry>`,
			code: uderrors.ErrDuplicateElement,
		},
		{
			name: "invalid gene name type",
			doc: `<entry dataset="Swiss-Prot">
  <accession>P1</accession>
  <name>N</name>
  <protein><recommendedName><fullName>F</fullName></recommendedName></protein>
  <gene><name type="nickname">abc</name></gene>
  <organism><name type="scientific">S</name></organism>
  <sequence length="1" checksum="00">M</sequence>
</entry>`,
			code: uderrors.ErrInvalidValue,
		},
		{
			name: "sequence length not a number",
			doc: `<entry dataset="Swiss-Prot">
  <accession>P1</accession>
  <name>N</name>
  <protein><recommendedName><fullName>F</fullName></recommendedName></protein>
  <organism><name type="scientific">S</name></organism>
  <sequence length="long" checksum="00">M</sequence>
</entry>`,
			code: uderrors.ErrInvalidValue,
		},
		{
			name: "recommended name without fullName",
			doc: `<entry dataset="Swiss-Prot">
  <accession>P1</accession>
  <name>N</name>
  <protein><recommendedName><shortName>F</shortName></recommendedName></protein>
  <organism><name type="scientific">S</name></organism>
  <sequence length="1" checksum="00">M</sequence>
</entry>`,
			code: uderrors.ErrMissingElement,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeEntry(strings.NewReader(tc.doc))
			if err == nil {
				t.Fatal("DecodeEntry() error = nil, want error")
			}
			if !uderrors.Is(err, tc.code) {
				t.Errorf("DecodeEntry() error = %v, want code %s", err, tc.code)
			}
		})
	}
}

func TestDatasetString(t *testing.T) {
	if got := SwissProt.String(); got != "Swiss-Prot" {
		t.Errorf("SwissProt.String() = %q", got)
	}
	if got := TrEMBL.String(); got != "TrEMBL" {
		t.Errorf("TrEMBL.String() = %q", got)
	}
	if got := Dataset(0).String(); got != "unknown" {
		t.Errorf("Dataset(0).String() = %q", got)
	}
}
