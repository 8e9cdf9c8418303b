package db

// Repositories provides access to all database repositories
type Repositories struct {
	Movies           *MovieRepository
	Series           *SeriesRepository
	Channels         *ChannelRepository
	Categories       *CategoryRepository
	Users            *UserRepository
	Favorites        *FavoriteRepository
	WatchHistory     *WatchHistoryRepository
	ContinueWatching *ContinueWatchingRepository
	SearchHistory    *SearchHistoryRepository
	Packages         *PackageRepository
	Subscriptions    *SubscriptionRepository
	StripeEvents     *StripeEventRepository
	Similarities     *SimilarityRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Movies:           NewMovieRepository(db),
		Series:           NewSeriesRepository(db),
		Channels:         NewChannelRepository(db),
		Categories:       NewCategoryRepository(db),
		Users:            NewUserRepository(db),
		Favorites:        NewFavoriteRepository(db),
		WatchHistory:     NewWatchHistoryRepository(db),
		ContinueWatching: NewContinueWatchingRepository(db),
		SearchHistory:    NewSearchHistoryRepository(db),
		Packages:         NewPackageRepository(db),
		Subscriptions:    NewSubscriptionRepository(db),
		StripeEvents:     NewStripeEventRepository(db),
		Similarities:     NewSimilarityRepository(db),
	}
}
