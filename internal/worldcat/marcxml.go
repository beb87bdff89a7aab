// Package worldcat queries the WorldCat Search API SRU endpoint through the
// request cache and extracts candidate records from its MARCXML responses.
package worldcat

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/umich-library-it/bookmatch/internal/match"
	"github.com/umich-library-it/bookmatch/internal/textnorm"
	"gopkg.in/yaml.v3"
)

// FieldSpec names the MARC datafield tag and subfield codes that feed one
// extracted record field.
type FieldSpec struct {
	Datafield string   `yaml:"datafield"`
	Subfields []string `yaml:"subfields"`
}

// Lookup maps extracted field names (Title, Publisher, ISBN, …) onto the
// MARC locations they come from. Loaded from a YAML configuration file so
// tag assignments can change without a rebuild.
type Lookup map[string]FieldSpec

// LoadLookup reads a field lookup table from a YAML file.
func LoadLookup(path string) (Lookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read MARC lookup file %s: %w", path, err)
	}
	var lookup Lookup
	if err := yaml.Unmarshal(data, &lookup); err != nil {
		return nil, fmt.Errorf("failed to parse MARC lookup file %s: %w", path, err)
	}
	return lookup, nil
}

// SRU searchRetrieveResponse layout, reduced to the elements we extract.
type searchRetrieveResponse struct {
	NumberOfRecords int          `xml:"numberOfRecords"`
	Records         []recordData `xml:"records>record>recordData"`
}

type recordData struct {
	Record marcRecord `xml:"record"`
}

type marcRecord struct {
	Datafields []datafield `xml:"datafield"`
}

type datafield struct {
	Tag       string     `xml:"tag,attr"`
	Subfields []subfield `xml:"subfield"`
}

type subfield struct {
	Code string `xml:"code,attr"`
	Text string `xml:",chardata"`
}

// ParseMARCXML extracts one candidate record per MARC record in an SRU
// response, keyed by the lookup table's field names. Repeated datafields
// get numbered key suffixes so callers can unflatten them; placeholder
// "n.a." values are dropped.
func ParseMARCXML(data []byte, lookup Lookup) ([]match.Record, error) {
	var response searchRetrieveResponse
	if err := xml.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse MARCXML response: %w", err)
	}

	if response.NumberOfRecords > 100 {
		slog.Error("Number of records > 100", "count", response.NumberOfRecords)
	}

	records := make([]match.Record, 0, len(response.Records))
	for _, data := range response.Records {
		record := match.Record{}
		for key, fieldSpec := range lookup {
			statements := data.Record.fieldsWithTag(fieldSpec.Datafield)
			for num, statement := range statements {
				for _, code := range fieldSpec.Subfields {
					keyName := mintKeyName(key, code, num+1, len(fieldSpec.Subfields), len(statements))
					value, ok := statement.subfieldText(code)
					if ok && !textnorm.IsNA(value) {
						record[keyName] = value
					}
				}
			}
			if len(statements) > 1 && key != "ISBN" {
				slog.Warn("Multiple values found", "field", key, "count", len(statements))
			}
		}
		slog.Debug("parsed candidate record", "record", record)
		records = append(records, record)
	}
	return records, nil
}

func (r marcRecord) fieldsWithTag(tag string) []datafield {
	var fields []datafield
	for _, field := range r.Datafields {
		if field.Tag == tag {
			fields = append(fields, field)
		}
	}
	return fields
}

func (d datafield) subfieldText(code string) (string, bool) {
	for _, sub := range d.Subfields {
		if sub.Code == code {
			return sub.Text, true
		}
	}
	return "", false
}

// mintKeyName suffixes a field key with the subfield code when the lookup
// entry names several, and with the statement index when the tag repeats:
// "ISBN a 2" is subfield a of the second 020 field.
func mintKeyName(key, code string, index, numSubfields, numStatements int) string {
	keyName := key
	if numSubfields > 1 {
		keyName += " " + code
	}
	if numStatements > 1 {
		keyName += " " + strconv.Itoa(index)
	}
	return keyName
}
