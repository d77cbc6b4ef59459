package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func addr(city string, isDefault bool) Address {
	return Address{ID: primitive.NewObjectID(), City: city, IsDefault: isDefault}
}

func TestAddAddress_FirstBecomesDefault(t *testing.T) {
	list := AddAddress(nil, Address{City: "Pune"})

	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[0].ID.IsZero(), "id is assigned on insertion")
}

func TestAddAddress_DefaultClearsOthers(t *testing.T) {
	list := []Address{addr("A", true), addr("B", false)}

	out := AddAddress(list, Address{City: "C", IsDefault: true})

	require.Len(t, out, 3)
	assert.Equal(t, 1, CountDefaultAddresses(out))
	def, ok := DefaultAddress(out)
	require.True(t, ok)
	assert.Equal(t, "C", def.City)
	assert.True(t, list[0].IsDefault, "input must not be mutated")
}

func TestAddAddress_NonDefaultKeepsExisting(t *testing.T) {
	list := []Address{addr("A", false), addr("B", true)}

	out := AddAddress(list, Address{City: "C"})

	def, _ := DefaultAddress(out)
	assert.Equal(t, "B", def.City)
	assert.Equal(t, 1, CountDefaultAddresses(out))
}

func TestRemoveAddress_PromotesFirstRemaining(t *testing.T) {
	a, b, c := addr("A", false), addr("B", true), addr("C", false)

	out, ok := RemoveAddress([]Address{a, b, c}, b.ID)

	require.True(t, ok)
	require.Len(t, out, 2)
	assert.True(t, out[0].IsDefault)
	assert.Equal(t, "A", out[0].City)
	assert.Equal(t, 1, CountDefaultAddresses(out))
}

func TestRemoveAddress_LastLeavesEmpty(t *testing.T) {
	a := addr("A", true)

	out, ok := RemoveAddress([]Address{a}, a.ID)

	assert.True(t, ok)
	assert.Empty(t, out)
	assert.Equal(t, 0, CountDefaultAddresses(out))
}

func TestRemoveAddress_Unknown(t *testing.T) {
	list := []Address{addr("A", true)}

	out, ok := RemoveAddress(list, primitive.NewObjectID())

	assert.False(t, ok)
	assert.Equal(t, list, out)
}

func TestSetDefaultAddress(t *testing.T) {
	a, b := addr("A", true), addr("B", false)

	out, ok := SetDefaultAddress([]Address{a, b}, b.ID)

	require.True(t, ok)
	assert.False(t, out[0].IsDefault)
	assert.True(t, out[1].IsDefault)
}

func TestSetDefaultAddress_UnknownLeavesListUnchanged(t *testing.T) {
	list := []Address{addr("A", true), addr("B", false)}

	out, ok := SetDefaultAddress(list, primitive.NewObjectID())

	assert.False(t, ok)
	assert.Equal(t, list, out)
}

func TestAddressBook_ExactlyOneDefaultAfterEveryOperation(t *testing.T) {
	var list []Address
	var ids []primitive.ObjectID

	check := func(step string) {
		want := 0
		if len(list) > 0 {
			want = 1
		}
		assert.Equal(t, want, CountDefaultAddresses(list), step)
	}

	for i, isDefault := range []bool{false, false, true, false, true} {
		list = AddAddress(list, Address{City: string(rune('A' + i)), IsDefault: isDefault})
		ids = append(ids, list[len(list)-1].ID)
		check("add")
	}

	list, _ = SetDefaultAddress(list, ids[1])
	check("set default")

	for _, id := range []primitive.ObjectID{ids[1], ids[0], ids[4], ids[2], ids[3]} {
		list, _ = RemoveAddress(list, id)
		check("remove")
	}
	assert.Empty(t, list)
}

func TestNormalizeDefault_RepairsMultipleDefaults(t *testing.T) {
	out := AddAddress([]Address{addr("A", true), addr("B", true)}, Address{City: "C"})

	assert.Equal(t, 1, CountDefaultAddresses(out))
	assert.True(t, out[0].IsDefault)
}
