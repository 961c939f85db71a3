package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/storageutil/uow"
)

type collectionInmemoryStore struct {
	collections map[domain.Address]domain.Collection
	locker      *sync.RWMutex
}

func newCollectionInmemoryStore() *collectionInmemoryStore {
	return &collectionInmemoryStore{
		collections: map[domain.Address]domain.Collection{},
		locker:      &sync.RWMutex{},
	}
}

func (s *collectionInmemoryStore) Begin() (uow.Tx, error) {
	s.locker.RLock()
	snapshot := make(map[domain.Address]domain.Collection, len(s.collections))
	for k, v := range s.collections {
		snapshot[k] = v
	}
	s.locker.RUnlock()

	return snapshotTx{func() {
		s.locker.Lock()
		s.collections = snapshot
		s.locker.Unlock()
	}}, nil
}

type collectionRepositoryImpl struct {
	store *collectionInmemoryStore
}

// NewCollectionRepositoryImpl returns a new inmemory CollectionRepository
// implementation.
func NewCollectionRepositoryImpl(
	store *collectionInmemoryStore,
) domain.CollectionRepository {
	return &collectionRepositoryImpl{store}
}

func (r *collectionRepositoryImpl) AddCollection(
	_ context.Context, collection *domain.Collection,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.collections[collection.Address]; ok {
		return domain.ErrCollectionAlreadyExists
	}
	r.store.collections[collection.Address] = *collection
	return nil
}

func (r *collectionRepositoryImpl) GetCollection(
	_ context.Context, addr domain.Address,
) (*domain.Collection, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	collection, ok := r.store.collections[addr]
	if !ok {
		return nil, domain.ErrCollectionNotFound
	}
	return &collection, nil
}

func (r *collectionRepositoryImpl) GetAllCollections(
	_ context.Context,
) ([]domain.Collection, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	collections := make([]domain.Collection, 0, len(r.store.collections))
	for _, c := range r.store.collections {
		collections = append(collections, c)
	}
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].Address.String() < collections[j].Address.String()
	})
	return collections, nil
}

func (r *collectionRepositoryImpl) UpdateCollection(
	_ context.Context, addr domain.Address,
	updateFn func(c *domain.Collection) (*domain.Collection, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	collection, ok := r.store.collections[addr]
	if !ok {
		return domain.ErrCollectionNotFound
	}

	updatedCollection, err := updateFn(&collection)
	if err != nil {
		return err
	}
	r.store.collections[addr] = *updatedCollection
	return nil
}

type operatorKey struct {
	collection domain.Address
	owner      domain.Address
	operator   domain.Address
}

type tokenInmemoryStore struct {
	tokens    map[domain.AssetKey]domain.Token
	operators map[operatorKey]bool
	locker    *sync.RWMutex
}

func newTokenInmemoryStore() *tokenInmemoryStore {
	return &tokenInmemoryStore{
		tokens:    map[domain.AssetKey]domain.Token{},
		operators: map[operatorKey]bool{},
		locker:    &sync.RWMutex{},
	}
}

func (s *tokenInmemoryStore) Begin() (uow.Tx, error) {
	s.locker.RLock()
	tokens := make(map[domain.AssetKey]domain.Token, len(s.tokens))
	for k, v := range s.tokens {
		tokens[k] = v
	}
	operators := make(map[operatorKey]bool, len(s.operators))
	for k, v := range s.operators {
		operators[k] = v
	}
	s.locker.RUnlock()

	return snapshotTx{func() {
		s.locker.Lock()
		s.tokens = tokens
		s.operators = operators
		s.locker.Unlock()
	}}, nil
}

type tokenRepositoryImpl struct {
	store *tokenInmemoryStore
}

// NewTokenRepositoryImpl returns a new inmemory TokenRepository
// implementation.
func NewTokenRepositoryImpl(store *tokenInmemoryStore) domain.TokenRepository {
	return &tokenRepositoryImpl{store}
}

func (r *tokenRepositoryImpl) AddToken(
	_ context.Context, token *domain.Token,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.tokens[token.Key] = *token
	return nil
}

func (r *tokenRepositoryImpl) GetToken(
	_ context.Context, key domain.AssetKey,
) (*domain.Token, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	token, ok := r.store.tokens[key]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return &token, nil
}

func (r *tokenRepositoryImpl) GetTokensByOwner(
	_ context.Context, collection, owner domain.Address,
) ([]domain.Token, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	tokens := make([]domain.Token, 0)
	for _, t := range r.store.tokens {
		if t.Key.Collection == collection && t.Owner == owner {
			tokens = append(tokens, t)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Key.TokenID < tokens[j].Key.TokenID
	})
	return tokens, nil
}

func (r *tokenRepositoryImpl) UpdateToken(
	_ context.Context, key domain.AssetKey,
	updateFn func(t *domain.Token) (*domain.Token, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	token, ok := r.store.tokens[key]
	if !ok {
		return domain.ErrTokenNotFound
	}

	updatedToken, err := updateFn(&token)
	if err != nil {
		return err
	}
	r.store.tokens[key] = *updatedToken
	return nil
}

func (r *tokenRepositoryImpl) SetApprovalForAll(
	_ context.Context, approval domain.OperatorApproval,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	key := operatorKey{approval.Collection, approval.Owner, approval.Operator}
	if !approval.Approved {
		delete(r.store.operators, key)
		return nil
	}
	r.store.operators[key] = true
	return nil
}

func (r *tokenRepositoryImpl) IsApprovedForAll(
	_ context.Context, collection, owner, operator domain.Address,
) (bool, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return r.store.operators[operatorKey{collection, owner, operator}], nil
}

type accountInmemoryStore struct {
	balances map[domain.Address]uint64
	locker   *sync.RWMutex
}

func newAccountInmemoryStore() *accountInmemoryStore {
	return &accountInmemoryStore{
		balances: map[domain.Address]uint64{},
		locker:   &sync.RWMutex{},
	}
}

func (s *accountInmemoryStore) Begin() (uow.Tx, error) {
	s.locker.RLock()
	snapshot := make(map[domain.Address]uint64, len(s.balances))
	for k, v := range s.balances {
		snapshot[k] = v
	}
	s.locker.RUnlock()

	return snapshotTx{func() {
		s.locker.Lock()
		s.balances = snapshot
		s.locker.Unlock()
	}}, nil
}

type accountRepositoryImpl struct {
	store *accountInmemoryStore
}

// NewAccountRepositoryImpl returns a new inmemory AccountRepository
// implementation.
func NewAccountRepositoryImpl(
	store *accountInmemoryStore,
) domain.AccountRepository {
	return &accountRepositoryImpl{store}
}

func (r *accountRepositoryImpl) GetAccount(
	_ context.Context, owner domain.Address,
) (*domain.Account, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return &domain.Account{Owner: owner, Balance: r.store.balances[owner]}, nil
}

func (r *accountRepositoryImpl) UpdateAccount(
	_ context.Context, owner domain.Address,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	account := &domain.Account{Owner: owner, Balance: r.store.balances[owner]}
	updatedAccount, err := updateFn(account)
	if err != nil {
		return err
	}
	r.store.balances[owner] = updatedAccount.Balance
	return nil
}
