package keystore

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/storage/kv/leveldbkv"
)

func withStore(t *testing.T, f func(s *Store)) {
	s := New(leveldbkv.OpenMemDB())
	defer s.Close()
	f(s)
}

func seed(b byte) zkgroup.Randomness {
	var r zkgroup.Randomness
	for i := range r {
		r[i] = b
	}
	return r
}

func TestServerParams(t *testing.T) {
	withStore(t, func(s *Store) {
		_, err := s.LoadServerParams()
		assert.Equal(t, ErrNotFound, err)

		params := zkgroup.GenerateServerSecretParamsWithRandom(seed(1))
		require.NoError(t, s.StoreServerParams(params))
		got, err := s.LoadServerParams()
		require.NoError(t, err)
		assert.Equal(t, params.Serialize(), got.Serialize())
	})
}

func TestCorruptValue(t *testing.T) {
	db := leveldbkv.OpenMemDB()
	s := New(db)
	defer s.Close()
	require.NoError(t, db.Put([]byte{ServerParamsIdentifier}, []byte{0, 1, 2}))
	_, err := s.LoadServerParams()
	assert.True(t, errors.Is(err, zkgroup.ErrInvalidInput))
}

func TestGroups(t *testing.T) {
	withStore(t, func(s *Store) {
		for i, name := range []string{"family", "book club", "work"} {
			gsp := zkgroup.GenerateGroupSecretParamsWithRandom(seed(byte(i)))
			require.NoError(t, s.StoreGroup(name, gsp.GetMasterKey()))
		}
		names, err := s.ListGroups()
		require.NoError(t, err)
		assert.Equal(t, []string{"book club", "family", "work"}, names)

		mk, err := s.LoadGroup("family")
		require.NoError(t, err)
		assert.Equal(t, zkgroup.GenerateGroupSecretParamsWithRandom(seed(0)).GetMasterKey(), mk)

		_, err = s.LoadGroup("nope")
		assert.Equal(t, ErrNotFound, err)
	})
}

func TestAuthCredentials(t *testing.T) {
	params := zkgroup.GenerateServerSecretParamsWithRandom(seed(1))
	server := zkgroup.NewServerZkAuthOperations(params)
	client := zkgroup.NewClientZkAuthOperations(params.GetPublicParams())
	uid := uuid.MustParse("4a5b9e4a-0fb4-4d1b-9f1b-1b0a6a0e3a11")

	withStore(t, func(s *Store) {
		for day := uint32(100); day < 105; day++ {
			resp, err := server.IssueAuthCredentialWithRandom(seed(byte(day)), uid, day)
			require.NoError(t, err)
			cred, err := client.ReceiveAuthCredential(uid, day, resp)
			require.NoError(t, err)
			require.NoError(t, s.StoreAuthCredential(cred))
		}

		cred, err := s.LoadAuthCredential(102)
		require.NoError(t, err)
		assert.Equal(t, uint32(102), cred.GetRedemptionTime())

		n, err := s.PruneAuthCredentials(103)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		_, err = s.LoadAuthCredential(102)
		assert.Equal(t, ErrNotFound, err)
		_, err = s.LoadAuthCredential(103)
		assert.NoError(t, err)

		n, err = s.PruneAuthCredentials(103)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestRedeemReceipt(t *testing.T) {
	withStore(t, func(s *Store) {
		var serial zkgroup.ReceiptSerial
		serial[0] = 7
		require.NoError(t, s.RedeemReceipt(serial, 5))
		assert.Equal(t, ErrAlreadyRedeemed, s.RedeemReceipt(serial, 5))
		serial[0] = 8
		assert.NoError(t, s.RedeemReceipt(serial, 5))
	})
}

func TestReceiptCredentials(t *testing.T) {
	params := zkgroup.GenerateServerSecretParamsWithRandom(seed(1))
	server := zkgroup.NewServerZkReceiptOperations(params)
	client := zkgroup.NewClientZkReceiptOperations(params.GetPublicParams())
	var serial zkgroup.ReceiptSerial
	serial[0] = 9

	withStore(t, func(s *Store) {
		ctx := client.CreateReceiptCredentialRequestContextWithRandom(seed(2), serial)
		require.NoError(t, s.StoreReceiptRequest(ctx))
		got, err := s.LoadReceiptRequest(serial)
		require.NoError(t, err)
		assert.Equal(t, ctx.Serialize(), got.Serialize())

		resp, err := server.IssueReceiptCredentialWithRandom(seed(3), ctx.GetRequest(), 1632355200, 3)
		require.NoError(t, err)
		cred, err := client.ReceiveReceiptCredential(ctx, resp)
		require.NoError(t, err)
		require.NoError(t, s.StoreReceiptCredential(cred))

		_, err = s.LoadReceiptRequest(serial)
		assert.Equal(t, ErrNotFound, err)
		stored, err := s.LoadReceiptCredential(serial)
		require.NoError(t, err)
		assert.Equal(t, cred.Serialize(), stored.Serialize())
	})
}

func TestPniCredentials(t *testing.T) {
	params := zkgroup.GenerateServerSecretParamsWithRandom(seed(1))
	server := zkgroup.NewServerZkProfileOperations(params)
	client := zkgroup.NewClientZkProfileOperations(params.GetPublicParams())
	aci := uuid.MustParse("4a5b9e4a-0fb4-4d1b-9f1b-1b0a6a0e3a11")
	pni := uuid.MustParse("8c78cd2a-16ff-427d-83dc-1a5e36ce713d")
	pk := zkgroup.ProfileKey{4}

	withStore(t, func(s *Store) {
		_, err := s.LoadPniCredential(aci)
		assert.Equal(t, ErrNotFound, err)

		ctx, err := client.CreatePniCredentialRequestContextWithRandom(seed(2), aci, pni, pk)
		require.NoError(t, err)
		resp, err := server.IssuePniCredentialWithRandom(seed(3), ctx.GetRequest(), aci, pni, pk.GetCommitment(aci))
		require.NoError(t, err)
		cred, err := client.ReceivePniCredential(ctx, resp)
		require.NoError(t, err)
		require.NoError(t, s.StorePniCredential(aci, cred))

		got, err := s.LoadPniCredential(aci)
		require.NoError(t, err)
		assert.Equal(t, cred.Serialize(), got.Serialize())
	})
}
