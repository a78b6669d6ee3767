package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/extraction"
)

// changedDateLayout is the UTC timestamp format of ChangedDate.
const changedDateLayout = "2006-01-02T15:04:05.000Z"

// revisionInput carries everything needed to assemble an offence revision.
type revisionInput struct {
	record           domain.InputRecord
	cleansed         domain.Fields
	extracted        *extraction.Result
	decision         domain.Decision
	contentHash      string
	releasePackageID string
	now              time.Time
}

// buildRevision assembles the catalog attributes of an accepted record.
// raw supplies the source columns, cleansed the title and wording before
// extraction, and extracted the final wording.
func buildRevision(in revisionInput) *domain.OffenceRevision {
	raw := in.record.Fields
	hoClass, hoSubClass := hoClassification(raw.Get(domain.FieldHOClassification))

	attrs := map[string]any{
		"Recordable":         value(raw, domain.FieldRecordable),
		"Reportable":         value(raw, domain.FieldReportable),
		"CJSTitle":           value(in.cleansed, domain.FieldTitle),
		"CustodialIndicator": custodialIndicator(raw[domain.FieldCustodialIndicator]),
		"DateUsedFrom":       value(raw, domain.FieldStartDate),
		"DateUsedTo":         value(raw, domain.FieldEndDate),
		"StandardList":       "No",
		"ChangedBy":          in.record.UploadedBy,
		"ChangedDate":        in.now.UTC().Format(changedDateLayout),
		"DVLACode":           value(raw, domain.FieldDVLACode),
		"OffenceNotes":       value(raw, domain.FieldNotes),
		"MaximumPenalty":     maximumPenalty(raw),
		"Description":        value(in.cleansed, domain.FieldTitle),
		"HOClass":            hoClass,
		"HOSubClass":         hoSubClass,

		"SecondLanguageCJSTitle":          value(raw, domain.FieldWelshTitle),
		"PNLDStandardOffenceWording":      value(in.cleansed, domain.FieldSOW),
		"PNLDWelshStandardOffenceWording": value(raw, domain.FieldWelshSOW),
		"PNLDDateOfLastUpdate":            value(raw, domain.FieldLastUpdate),
		"PNLDProsecutionTimeLimit":        value(raw, domain.FieldTimeLimit),
		"PNLDMaxFineTypeMagistratesCourt": value(raw, domain.FieldMaxFineTypeCode),

		"PNLDMaxFineTypeMagistratesCourtDescription": value(raw, domain.FieldMaxFineTypeDesc),

		"PNLDModeOfTrial":              modeOfTrial(raw[domain.FieldCategory]),
		"PNLDEndorsableFlag":           endorsable(raw[domain.FieldDVLACode]),
		"PNLDLocationFlag":             locationFlag(raw.Get(domain.FieldSOWRaw)),
		"PNLDPrincipalOffenceCategory": value(raw, domain.FieldCategory),
		"UserOffenceWording":           in.extracted.SOW,
		"UserStatementOfFacts":         optional(in.extracted.SOF),
		"UserActsAndSection":           value(raw, domain.FieldLegislation),
		"CJSCode":                      in.record.CJS(),
		"Blocked":                      "N",

		"SecondLanguageOffenceStatementOfFactsText": value(raw, domain.FieldWelshSOF),
		"SecondLanguageOffenceWordingText":          value(raw, domain.FieldWelshSOW),
		"SecondLanguageOffenceActAndSectionText":    value(raw, domain.FieldWelshLegislation),

		"OffenceCode":          0,
		"PNLDOffenceStartDate": value(raw, domain.FieldStartDate),
		"PNLDOffenceEndDate":   value(raw, domain.FieldEndDate),
		"SOWReference":         value(raw, domain.FieldReference),
		"AuthoringStatus":      domain.AuthoringFinal,
		"PublishingStatus":     domain.PublishingPending,
		"OffenceType":          value(raw, domain.FieldCategory),
		"OffenceSource":        "PNLD",
		"MISClassification":    value(raw, domain.FieldMISCode),
		"OffenceClass":         "S",
		"ObsoleteIndicator":    "N",
		"PNLDHashMD5":          in.contentHash,
		"VersionType":          in.decision.Kind.String(),
		"FID_ReleasePackage":   in.releasePackageID,
	}

	entries := make([]domain.TerminalEntry, len(in.extracted.Entries))
	copy(entries, in.extracted.Entries)

	return &domain.OffenceRevision{
		SourceFileID: in.record.SourceFileID,
		CJSCode:      in.record.CJS(),
		Attributes:   attrs,
		Entries:      entries,
	}
}

// value returns the field or nil when absent, so it serialises as null.
func value(f domain.Fields, key string) any {
	if v := f[key]; v != nil {
		return *v
	}
	return nil
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// endorsable is N when there is no DVLA code or it is a non-endorsable NE code.
func endorsable(dvla *string) string {
	if dvla == nil || strings.HasPrefix(*dvla, "NE") {
		return "N"
	}
	return "Y"
}

// hoClassification splits "class/subclass". Anything but two integers
// around a single slash yields nil for both.
func hoClassification(raw string) (any, any) {
	text := strings.TrimSpace(raw)
	if strings.Count(text, "/") != 1 {
		return nil, nil
	}
	left, right, _ := strings.Cut(text, "/")
	class, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return nil, nil
	}
	sub, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return nil, nil
	}
	return class, sub
}

func modeOfTrial(category *string) any {
	if category == nil {
		return nil
	}
	prefix := strings.ToUpper(strings.TrimSpace(*category))
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	switch prefix {
	case "CE":
		return "Either Way"
	case "CI":
		return "Indictable"
	case "CM", "CS":
		return "Summary"
	default:
		return nil
	}
}

func locationFlag(sowRaw string) string {
	if strings.Contains(sowRaw, "SPECIFY TOWNSHIP") {
		return "Y"
	}
	return "N"
}

// custodialIndicator inverts the PNLD flag: a custodial offence is not
// "non-custodial" in the catalog's terms.
func custodialIndicator(raw *string) any {
	if raw == nil {
		return nil
	}
	switch strings.ToUpper(strings.TrimSpace(*raw)) {
	case "Y", "YES", "1":
		return "No"
	case "N", "NO", "0":
		return "Yes"
	default:
		return nil
	}
}

var custodialUnits = map[string]string{"Days": "D", "Weeks": "W", "Months": "M"}

// maximumPenalty renders the magistrates' court maximum penalty summary,
// e.g. "S:6M &/or Ultd Fine". Categories CB and CR have none ("");
// unknown categories yield nil.
func maximumPenalty(f domain.Fields) any {
	category := f.Get(domain.FieldCategory)

	var b strings.Builder
	switch category {
	case "CS", "CM":
		b.WriteString("S:")
	case "CE":
		b.WriteString("EW:")
	case "CI":
		b.WriteString("Indictable only")
	case "CB", "CR":
		return ""
	default:
		return nil
	}

	fineType := f[domain.FieldMaxFineTypeCode]
	hasFineType := fineType != nil && *fineType != ""

	if length, err := strconv.Atoi(strings.TrimSpace(f.Get(domain.FieldMaxCustodialLength))); err == nil && length > 0 {
		unit := f.Get(domain.FieldMaxCustodialUnit)
		if short, ok := custodialUnits[unit]; ok {
			unit = short
		}
		b.WriteString(strconv.Itoa(length) + unit)
		if hasFineType {
			b.WriteString(" &/or ")
		}
	}

	fine := f.Get(domain.FieldMaxFine)
	fineAmount, _ := strconv.ParseFloat(fine, 64)
	numericType, _ := strconv.Atoi(f.Get(domain.FieldMaxFineTypeCode))

	switch ft := f.Get(domain.FieldMaxFineTypeCode); {
	case ft == "S" || ft == "U":
		b.WriteString("Ultd Fine")
	case ft == "O":
		b.Reset()
		if fineAmount > 0 {
			b.WriteString("£" + fine)
		}
	case numericType > 0:
		b.WriteString("L" + ft)
	case fineAmount > 0:
		b.WriteString("£" + fine)
	}

	if f.Get(domain.FieldDisqualification) == "O" {
		b.WriteString("Oblig disq LE ")
	}

	maxPoints := f[domain.FieldMaxPenaltyPoints]
	if minPoints, err := strconv.Atoi(strings.TrimSpace(f.Get(domain.FieldMinPenaltyPoints))); err == nil && minPoints > 0 {
		if maxPoints != nil && *maxPoints != "" {
			b.WriteString(" LE " + strconv.Itoa(minPoints) + "-")
		} else {
			b.WriteString(" LE " + strconv.Itoa(minPoints) + "pp")
		}
	}
	if maxPoints != nil {
		b.WriteString(*maxPoints + "pp")
	}

	return b.String()
}
