package usecase

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"pgregory.net/rapid"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/custody"
	"github.com/x-xyz/marketplace/domain/listing"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/service/lock"
	custodyRepo "github.com/x-xyz/marketplace/stores/custody/repository"
	custodyUC "github.com/x-xyz/marketplace/stores/custody/usecase"
	eventRepo "github.com/x-xyz/marketplace/stores/event/repository"
	listingRepo "github.com/x-xyz/marketplace/stores/listing/repository"
	payoutRepo "github.com/x-xyz/marketplace/stores/payout/repository"
	payoutUC "github.com/x-xyz/marketplace/stores/payout/usecase"
	proceedsRepo "github.com/x-xyz/marketplace/stores/proceeds/repository"
)

type modelListing struct {
	seller domain.Address
	price  uint64
}

// model is the registry reduced to maps
type model struct {
	owners    map[domain.TokenId]domain.Address
	listings  map[domain.TokenId]modelListing
	proceeds  map[domain.Address]uint64
	withdrawn uint64
}

// kindOf returns the marketplace error kind of err, "" for nil
func kindOf(err error) (marketplace.ErrorKind, bool) {
	if err == nil {
		return "", true
	}
	var merr *marketplace.Error
	if errors.As(err, &merr) {
		return merr.Kind, true
	}
	return "", false
}

func TestMarketplaceModel(t *testing.T) {
	accounts := []domain.Address{alice, bob, carol}
	const tokens = 4

	rapid.Check(t, func(t *rapid.T) {
		c := ctx.Background()
		locker := lock.NewLocal()
		book := custodyUC.New(custodyRepo.NewMemory(), locker, []custody.Collection{{Address: toys}})
		payouts := payoutRepo.NewMemory()
		uc := New(Config{
			Listings:  listingRepo.NewMemory(),
			Proceeds:  proceedsRepo.NewMemory(),
			Oracle:    custodyUC.NewOracle(book, market),
			Sender:    payoutUC.NewLedgerSender(payouts),
			Publisher: &storePublisher{repo: eventRepo.NewMemory()},
			Events:    eventRepo.NewMemory(),
			Locker:    locker,
			Operator:  market,
		})

		m := &model{
			owners:   map[domain.TokenId]domain.Address{},
			listings: map[domain.TokenId]modelListing{},
			proceeds: map[domain.Address]uint64{},
		}
		for _, a := range accounts {
			if err := book.SetApprovalForAll(c, a, toys, market, true); err != nil {
				t.Fatalf("SetApprovalForAll: %v", err)
			}
		}
		for i := 0; i < tokens; i++ {
			owner := rapid.SampledFrom(accounts).Draw(t, "minter")
			id, err := book.Mint(c, owner, toys)
			if err != nil {
				t.Fatalf("Mint: %v", err)
			}
			m.owners[id] = owner
		}

		drawToken := func(t *rapid.T) domain.TokenId {
			return domain.TokenIdFromUint64(uint64(rapid.IntRange(1, tokens).Draw(t, "token")))
		}
		check := func(t *rapid.T, op string, err error, want marketplace.ErrorKind) {
			got, ok := kindOf(err)
			if !ok {
				t.Fatalf("%s: unexpected error %v", op, err)
			}
			if got != want {
				t.Fatalf("%s: want %q, got %q (%v)", op, want, got, err)
			}
		}

		t.Repeat(map[string]func(*rapid.T){
			"list": func(t *rapid.T) {
				caller := rapid.SampledFrom(accounts).Draw(t, "caller")
				id := drawToken(t)
				price := uint64(rapid.IntRange(0, 3).Draw(t, "price"))
				err := uc.ListNft(c, caller, listing.Id{Collection: toys, TokenId: id}, *uint256.NewInt(price))

				_, listed := m.listings[id]
				switch {
				case m.owners[id] != caller:
					check(t, "list", err, marketplace.KindNotOwner)
				case price == 0:
					check(t, "list", err, marketplace.KindInvalidPrice)
				case listed:
					check(t, "list", err, marketplace.KindAlreadyListed)
				default:
					check(t, "list", err, "")
					m.listings[id] = modelListing{seller: caller, price: price}
				}
			},
			"cancel": func(t *rapid.T) {
				caller := rapid.SampledFrom(accounts).Draw(t, "caller")
				id := drawToken(t)
				err := uc.CancelListing(c, caller, listing.Id{Collection: toys, TokenId: id})

				l, listed := m.listings[id]
				switch {
				case !listed:
					check(t, "cancel", err, marketplace.KindNotListed)
				case l.seller != caller:
					check(t, "cancel", err, marketplace.KindUnauthorizedCancel)
				default:
					check(t, "cancel", err, "")
					delete(m.listings, id)
				}
			},
			"update": func(t *rapid.T) {
				caller := rapid.SampledFrom(accounts).Draw(t, "caller")
				id := drawToken(t)
				price := uint64(rapid.IntRange(0, 3).Draw(t, "price"))
				err := uc.UpdateListing(c, caller, listing.Id{Collection: toys, TokenId: id}, *uint256.NewInt(price))

				l, listed := m.listings[id]
				switch {
				case !listed:
					check(t, "update", err, marketplace.KindNotListed)
				case l.seller != caller:
					check(t, "update", err, marketplace.KindUnauthorizedUpdate)
				case price == 0:
					check(t, "update", err, marketplace.KindInvalidPrice)
				default:
					check(t, "update", err, "")
					m.listings[id] = modelListing{seller: l.seller, price: price}
				}
			},
			"buy": func(t *rapid.T) {
				caller := rapid.SampledFrom(accounts).Draw(t, "caller")
				id := drawToken(t)
				paid := uint64(rapid.IntRange(0, 4).Draw(t, "paid"))
				err := uc.BuyNft(c, caller, listing.Id{Collection: toys, TokenId: id}, *uint256.NewInt(paid))

				l, listed := m.listings[id]
				switch {
				case !listed:
					check(t, "buy", err, marketplace.KindNotListed)
				case l.price != paid:
					check(t, "buy", err, marketplace.KindInvalidPaymentAmount)
				case m.owners[id] != l.seller:
					check(t, "buy", err, marketplace.KindTransferFailed)
				default:
					check(t, "buy", err, "")
					delete(m.listings, id)
					m.proceeds[l.seller] += l.price
					m.owners[id] = caller
				}
			},
			"withdraw": func(t *rapid.T) {
				caller := rapid.SampledFrom(accounts).Draw(t, "caller")
				amount, err := uc.WithdrawProceeds(c, caller)

				if m.proceeds[caller] == 0 {
					check(t, "withdraw", err, marketplace.KindNoProceeds)
					return
				}
				check(t, "withdraw", err, "")
				if amount.Uint64() != m.proceeds[caller] {
					t.Fatalf("withdraw: want %d, got %s", m.proceeds[caller], amount.Dec())
				}
				m.withdrawn += m.proceeds[caller]
				m.proceeds[caller] = 0
			},
			// moves a token behind the marketplace's back, leaving its listing stale
			"giveAway": func(t *rapid.T) {
				id := drawToken(t)
				to := rapid.SampledFrom(accounts).Draw(t, "to")
				from := m.owners[id]
				if err := book.TransferFrom(c, from, toys, id, from, to); err != nil {
					t.Fatalf("TransferFrom: %v", err)
				}
				m.owners[id] = to
			},
			"": func(t *rapid.T) {
				for id, owner := range m.owners {
					lid := listing.Id{Collection: toys, TokenId: id}
					got, err := uc.GetListing(c, lid)
					if err != nil {
						t.Fatalf("GetListing: %v", err)
					}
					want, listed := m.listings[id]
					if !listed && !got.IsZero() {
						t.Fatalf("%s: want unlisted, got %s at %s", id, got.Seller, got.Price.Dec())
					}
					if listed && (!got.Seller.Equals(want.seller) || got.Price.Uint64() != want.price) {
						t.Fatalf("%s: want %s at %d, got %s at %s", id, want.seller, want.price, got.Seller, got.Price.Dec())
					}
					actual, err := book.OwnerOf(c, toys, id)
					if err != nil {
						t.Fatalf("OwnerOf: %v", err)
					}
					if !actual.Equals(owner) {
						t.Fatalf("%s: want owner %s, got %s", id, owner, actual)
					}
				}
				for _, a := range accounts {
					bal, err := uc.GetProceeds(c, a)
					if err != nil {
						t.Fatalf("GetProceeds: %v", err)
					}
					if bal.Uint64() != m.proceeds[a] {
						t.Fatalf("%s: want proceeds %d, got %s", a, m.proceeds[a], bal.Dec())
					}
				}
				sent, err := payouts.FindAll(c)
				if err != nil {
					t.Fatalf("payouts.FindAll: %v", err)
				}
				var total uint64
				for _, p := range sent {
					total += p.Amount.Uint64()
				}
				if total != m.withdrawn {
					t.Fatalf("want %d paid out, got %d", m.withdrawn, total)
				}
			},
		})
	})
}
