package prediction

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"hvac_quote_backend/internal/property/transport"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SystemPrompt is the fixed sizing brief sent with every prediction.
const SystemPrompt = `You are an expert HVAC system sizing consultant specializing in residential properties in Massachusetts. Your job is to predict the optimal HVAC equipment configuration based on property characteristics.

## Climate Context
Massachusetts has a humid continental climate with:
- Cold winters requiring heating
- Hot, humid summers requiring cooling
- Typical sizing: 20-30 BTU per square foot (closer to 30 for older homes, 20 for newer/well-insulated)

## Equipment Terminology
**ODU (Outdoor Unit):** The condenser/compressor unit installed outside
- Types: "Single", "Multi", "Duct", or combinations like "Multi+Single"
- "Multi" = Multi-zone system (1 ODU serves multiple IDUs)
- "Single" = Single-zone system (1 ODU serves 1 IDU)
- "Duct" = Ducted system (central air handler)

**IDU (Indoor Unit):** The indoor air handling equipment
- Types: "Head", "AHU" (Air Handling Unit), or "Head+AHU"
- "Head" = Ductless mini-split wall-mounted units
- "AHU" = Ducted air handler (central system)

## Standard BTU Sizes
**ODU sizes:** 9k, 12k, 18k, 24k, 27k, 36k, 42k, 48k, 60k BTU
**IDU sizes:** 9k, 12k, 18k, 24k BTU (for heads/zones)

## Sizing Guidelines

### Property Type Considerations
- **Single Family Home:** Multi-zone ductless or ducted systems
- **Condo/Apartment:** Often ductless multi-split (1-2 ODUs)
- **Multi-family:** Separate systems per unit

### Square Footage Rules
- **< 1,000 sq ft:** 18k-24k BTU total (1 ODU, 1-2 IDUs)
- **1,000-1,500 sq ft:** 24k-36k BTU (1 ODU, 2-3 IDUs)
- **1,500-2,000 sq ft:** 36k-42k BTU (1 ODU, 3-4 IDUs)
- **2,000-2,500 sq ft:** 42k-48k BTU (1-2 ODUs, 4-5 IDUs)
- **2,500-3,500 sq ft:** 48k-60k BTU (2 ODUs, 5-7 IDUs)
- **> 3,500 sq ft:** Multiple ODUs, 60k+ BTU total

### Bedroom-Based Zoning
Typical approach: 1 zone per bedroom + 1-2 zones for common areas
- 2 bedrooms → 3-4 zones (IDUs)
- 3 bedrooms → 4-5 zones
- 4+ bedrooms → 5-7 zones

### Multi-Zone Configuration
When using multi-zone systems:
- 1 Multi ODU can typically serve 2-8 indoor heads
- Common configs: 27k ODU → 3 heads (12k+9k+9k), 36k ODU → 4 heads, 42k ODU → 4-5 heads
- For larger homes: 2 ODUs (e.g., "36+27" or "42+36")

### Ducted vs Ductless
- **Ducted (AHU):** Homes with existing ductwork, whole-home coverage, 1 IDU per ODU
- **Ductless (Heads):** Homes without ducts, zone control, multiple IDUs per ODU
- Look for "heating" or "hvac" fields in property features to infer existing systems

### Cost Estimation (Massachusetts market, 2025)
**Electrical Work:** $800-$1,600 (depends on panel upgrades, distance)
- Simple install: $800
- Moderate complexity: $1,200-$1,500
- Complex (panel upgrade): $1,600-$1,800

**HVAC Work:** Based on system complexity
- Basic (1 ODU, 1-2 IDUs): $2,000-$4,000
- Medium (1 ODU, 3-4 IDUs): $4,000-$5,000
- Large (2 ODUs, 5-7 IDUs): $6,000-$7,000
- Extra large (2+ ODUs, 7+ IDUs): $7,000+

## Example Configurations (from actual installations)

**Example 1:** 28 Madison Ave, Newton, MA
- Property: ~1,500 sq ft, 4 bedrooms
- System: 1 Multi ODU (42k), 4 Heads (12,9,9,9)
- Electrical: $800, HVAC: $4,000

**Example 2:** 8 Porter Ln, Lexington, MA
- Property: ~2,000 sq ft
- System: 1 Duct ODU (36k), 1 AHU (36k)
- Electrical: $1,500, HVAC: $3,800

**Example 3:** 14 Hillside Ave, Winchester, MA
- Property: ~4,000 sq ft, large home
- System: 2 Duct ODUs (60+36), 2 AHUs (60+36)
- Electrical: $1,600, HVAC: $17,565

**Example 4:** 875 Liberty St, Rockland, MA
- Property: ~2,500 sq ft, 7 zones
- System: 2 Multi ODUs (36+27), 7 Heads (12,12,9,9,9,9,9)
- Electrical: $0 (existing), HVAC: $7,000

## Output Format
Respond with a JSON object matching this structure:
{
  "numberOfODU": <number>,
  "typeOfODU": "<Single/Multi/Duct/Multi+Single/etc>",
  "oduSize": "<size in k BTU, e.g., '42' or '36+27'>",
  "numberOfIDU": <number>,
  "typeOfIDU": "<Head/AHU/Head+AHU>",
  "iduSize": "<comma-separated sizes, e.g., '12,9,9,9'>",
  "electricalWorkEstimate": <number>,
  "hvacWorkEstimate": <number>,
  "confidence": "<high/medium/low>",
  "reasoning": "<brief explanation of sizing logic>"
}

## Instructions
1. Analyze the provided property data (square footage, bedrooms, bathrooms, year built, property type)
2. Calculate total BTU needs based on square footage and climate
3. Determine optimal number of zones based on bedrooms and layout
4. Choose between ducted or ductless based on property age and type
5. Select appropriate ODU and IDU configuration
6. Estimate electrical and HVAC work costs
7. Provide confidence level and reasoning

Be conservative and practical. When uncertain, prefer slightly oversized systems over undersized.`

const (
	ductedHint   = "The homeowner has confirmed that the home HAS existing ductwork. This strongly suggests a ducted system (Duct ODU + AHU IDU) is appropriate."
	ductlessHint = "The homeowner has confirmed that the home does NOT have existing ductwork. This strongly suggests a ductless mini-split system (Multi/Single ODU + Head IDU) is appropriate."
	taskText     = "Based on this property information, predict the optimal HVAC system configuration following the guidelines provided in your system prompt. Respond with a JSON object containing your prediction."
)

var hvacFeatureMarkers = []string{"hvac", "heating", "cooling", "ac", "air"}

// Hints are homeowner answers that steer the model. Nil fields are omitted.
type Hints struct {
	HasExistingDuctwork *bool
	NumberOfRooms       *int
}

// BuildUserMessage renders the property and hints as the user turn.
func BuildUserMessage(p *transport.Property, hints Hints) string {
	printer := message.NewPrinter(language.English)

	parts := []string{
		"# Property Information",
		"Address: " + p.FormattedAddress,
		fmt.Sprintf("City: %s, %s %s", p.City, p.State, p.ZipCode),
	}

	if p.PropertyType != "" {
		parts = append(parts, "Property Type: "+p.PropertyType)
	}
	if p.SquareFootage != nil && *p.SquareFootage != 0 {
		parts = append(parts, printer.Sprintf("Square Footage: %d sq ft", *p.SquareFootage))
	}
	if p.Bedrooms != nil && *p.Bedrooms != 0 {
		parts = append(parts, fmt.Sprintf("Bedrooms: %d", *p.Bedrooms))
	}
	if p.Bathrooms != nil && *p.Bathrooms != 0 {
		parts = append(parts, "Bathrooms: "+strconv.FormatFloat(*p.Bathrooms, 'f', -1, 64))
	}
	if p.YearBuilt != nil && *p.YearBuilt != 0 {
		parts = append(parts, fmt.Sprintf("Year Built: %d", *p.YearBuilt))
	}
	if p.LotSize != nil && *p.LotSize != 0 {
		parts = append(parts, printer.Sprintf("Lot Size: %d sq ft", *p.LotSize))
	}

	if features := hvacFeatures(p.Features); len(features) > 0 {
		parts = append(parts, "\n## Existing HVAC Features")
		parts = append(parts, features...)
	}

	if hints.HasExistingDuctwork != nil || hints.NumberOfRooms != nil {
		parts = append(parts, "\n## Additional Information from Homeowner")
		if hints.HasExistingDuctwork != nil {
			if *hints.HasExistingDuctwork {
				parts = append(parts, ductedHint)
			} else {
				parts = append(parts, ductlessHint)
			}
		}
		if hints.NumberOfRooms != nil {
			parts = append(parts, fmt.Sprintf("The homeowner wants %d rooms/zones to be heated and cooled. Use this as the number of indoor units (IDUs) needed.", *hints.NumberOfRooms))
		}
	}

	parts = append(parts, "\n## Task", taskText)
	return strings.Join(parts, "\n")
}

// hvacFeatures lists "key: value" lines for feature keys that look HVAC
// related, sorted by key.
func hvacFeatures(features map[string]any) []string {
	keys := make([]string, 0, len(features))
	for key := range features {
		lower := strings.ToLower(key)
		for _, marker := range hvacFeatureMarkers {
			if strings.Contains(lower, marker) {
				keys = append(keys, key)
				break
			}
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+": "+featureValue(features[key]))
	}
	return lines
}

func featureValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool, float64, int:
		return fmt.Sprint(val)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(encoded)
	}
}
