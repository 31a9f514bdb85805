// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package query

// Mutation names every write operation the console performs against the
// platform API. The invalidation table below is the single place that
// decides which cached resources a successful mutation stales; handlers
// call KeysFor instead of listing keys inline.
type Mutation string

const (
	MutateUserRole        Mutation = "user-role"
	MutateUserDelete      Mutation = "user-delete"
	MutatePromptCreate    Mutation = "prompt-create"
	MutatePromptUpdate    Mutation = "prompt-update"
	MutatePromptDelete    Mutation = "prompt-delete"
	MutateWebsiteSettings Mutation = "website-settings"
	MutateAdsApproval     Mutation = "ads-approval"
	MutateDomainDelete    Mutation = "domain-delete"
	MutateLeadDelete      Mutation = "lead-delete"
	MutateSectionDelete   Mutation = "section-delete"
	MutateBlockDelete     Mutation = "block-delete"
	MutateContentWipe     Mutation = "content-wipe"
	MutateProviderSet     Mutation = "provider-set"
)

// Mutations lists every mutation kind. Kept in sync with the constants
// above; the invalidation tests iterate it.
func Mutations() []Mutation {
	return []Mutation{
		MutateUserRole,
		MutateUserDelete,
		MutatePromptCreate,
		MutatePromptUpdate,
		MutatePromptDelete,
		MutateWebsiteSettings,
		MutateAdsApproval,
		MutateDomainDelete,
		MutateLeadDelete,
		MutateSectionDelete,
		MutateBlockDelete,
		MutateContentWipe,
		MutateProviderSet,
	}
}

// KeysFor returns the cache keys a successful mutation invalidates.
// websiteID parameterizes the storage-detail key and is ignored by
// mutations that don't touch storage.
//
// Deletes also stale the dashboard counters, and a domain delete cascades
// server-side to websites, leads and content, so it stales all of them.
func KeysFor(m Mutation, websiteID string) []Key {
	switch m {
	case MutateUserRole:
		return []Key{KeyUsers}
	case MutateUserDelete:
		return []Key{KeyUsers, KeyStats}
	case MutatePromptCreate, MutatePromptUpdate, MutatePromptDelete:
		return []Key{KeyPrompts, KeyStats}
	case MutateWebsiteSettings, MutateAdsApproval:
		return []Key{KeyWebsites}
	case MutateDomainDelete:
		return []Key{KeyDomains, KeyWebsites, KeyLeads, KeyStorageOverview, KeyStats}
	case MutateLeadDelete:
		return []Key{KeyLeads, KeyStats}
	case MutateSectionDelete, MutateBlockDelete, MutateContentWipe:
		return []Key{StorageDetailKey(websiteID), KeyStorageOverview}
	case MutateProviderSet:
		return []Key{KeyStorageProvider}
	}
	return nil
}
