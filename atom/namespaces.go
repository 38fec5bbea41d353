// Package atom builds and parses the Atom entries exchanged with the asset
// service.
//
// Requests are Atom entries whose content is an OData property block; the
// service answers a successful create with the stored entry in the same shape.
package atom

// XML Namespace URIs used in asset entries.
const (
	// NsAtom is the Atom syndication namespace (default namespace of an entry).
	NsAtom = "http://www.w3.org/2005/Atom"

	// NsData is the OData data services namespace (prefix d).
	NsData = "http://schemas.microsoft.com/ado/2007/08/dataservices"

	// NsMetadata is the OData metadata namespace (prefix m).
	NsMetadata = "http://schemas.microsoft.com/ado/2007/08/dataservices/metadata"

	// NsScheme is the OData category scheme.
	NsScheme = "http://schemas.microsoft.com/ado/2007/08/dataservices/scheme"
)

const (
	// ContentType is the request content type for entries.
	ContentType = "application/atom+xml"

	// CategoryAsset is the entity type term for assets.
	CategoryAsset = "pomegranateModel.Asset"

	// StatusApproved is the only status the client publishes.
	StatusApproved = "APPROVED"

	// AssetIDPlaceholder is sent in AssetID; the server assigns the real ID.
	AssetIDPlaceholder = "--"
)

// Property names in the m:properties block.
const (
	PropAssetID       = "AssetID"
	PropAssetData     = "AssetData"
	PropAssetType     = "AssetType"
	PropAssetMeta     = "AssetMeta"
	PropAssetRecordID = "AssetRecordID"
	PropTarget        = "Target"
	PropClient        = "Client"
	PropStatus        = "Status"
)
