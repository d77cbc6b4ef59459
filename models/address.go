package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// The functions below never mutate their input. Each returns a list holding exactly
// one default address when non-empty.

// AddAddress appends addr to list. A default addr clears the flag everywhere else; the
// first address of an empty list always becomes the default.
func AddAddress(list []Address, addr Address) []Address {
	if addr.ID.IsZero() {
		addr.ID = primitive.NewObjectID()
	}

	out := make([]Address, 0, len(list)+1)
	for _, existing := range list {
		if addr.IsDefault {
			existing.IsDefault = false
		}
		out = append(out, existing)
	}
	out = append(out, addr)

	return normalizeDefault(out)
}

// RemoveAddress drops the address with the given id. Removing the default promotes the
// first remaining address. ok is false when id is not in list.
func RemoveAddress(list []Address, id primitive.ObjectID) (out []Address, ok bool) {
	out = make([]Address, 0, len(list))
	for _, existing := range list {
		if existing.ID == id {
			ok = true
			continue
		}
		out = append(out, existing)
	}
	if !ok {
		return cloneAddresses(list), false
	}
	return normalizeDefault(out), true
}

// SetDefaultAddress makes id the only default. ok is false when id is not in list, in
// which case the list is returned unchanged.
func SetDefaultAddress(list []Address, id primitive.ObjectID) (out []Address, ok bool) {
	out = make([]Address, len(list))
	for i, existing := range list {
		existing.IsDefault = existing.ID == id
		if existing.IsDefault {
			ok = true
		}
		out[i] = existing
	}
	if !ok {
		return cloneAddresses(list), false
	}
	return out, true
}

// DefaultAddress returns the address flagged default.
func DefaultAddress(list []Address) (Address, bool) {
	for _, addr := range list {
		if addr.IsDefault {
			return addr, true
		}
	}
	return Address{}, false
}

// FindAddress returns the address with the given id.
func FindAddress(list []Address, id primitive.ObjectID) (Address, bool) {
	for _, addr := range list {
		if addr.ID == id {
			return addr, true
		}
	}
	return Address{}, false
}

func CountDefaultAddresses(list []Address) int {
	n := 0
	for _, addr := range list {
		if addr.IsDefault {
			n++
		}
	}
	return n
}

// normalizeDefault keeps the first flagged address as the default, or promotes the first
// address when none is flagged.
func normalizeDefault(list []Address) []Address {
	if len(list) == 0 {
		return list
	}
	seen := false
	for i := range list {
		if list[i].IsDefault {
			if seen {
				list[i].IsDefault = false
			}
			seen = true
		}
	}
	if !seen {
		list[0].IsDefault = true
	}
	return list
}

func cloneAddresses(list []Address) []Address {
	out := make([]Address, len(list))
	copy(out, list)
	return out
}
