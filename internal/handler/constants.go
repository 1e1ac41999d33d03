package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteProductBySlug is the product detail route pattern.
	RouteProductBySlug = "/product/{slug}"
	// RouteCart is the cart page.
	RouteCart = "/cart"
	// RouteCartAdd is the add-to-cart action.
	RouteCartAdd = "/cart/add"
	// RouteCartRemove is the remove-line action.
	RouteCartRemove = "/cart/remove/{id}"
	// RouteCheckout is the checkout page and action.
	RouteCheckout = "/checkout"
	// RouteBlog is the blog index.
	RouteBlog = "/blog"
	// RouteBlogPost is the blog post route pattern.
	RouteBlogPost = "/blog/{slug}"

	// RouteAdmin is the back-office root.
	RouteAdmin = "/admin"
	// RouteAdminLogin is the login page and action.
	RouteAdminLogin = "/admin/login"
	// RouteAdminLogout is the logout action.
	RouteAdminLogout = "/admin/logout"
	// RouteAdminDashboard is the dashboard page.
	RouteAdminDashboard = "/admin/dashboard"
	// RouteAdminProducts is the product list page.
	RouteAdminProducts = "/admin/products"
	// RouteAdminProductsNew is the new-product form.
	RouteAdminProductsNew = "/admin/products/new"
	// RouteAdminProductByID is the edit form and save action.
	RouteAdminProductByID = "/admin/products/{id}"
	// RouteAdminProductDelete is the delete action.
	RouteAdminProductDelete = "/admin/products/{id}/delete"
	// RouteAdminOrders is the order list page.
	RouteAdminOrders = "/admin/orders"
	// RouteAdminSettings is the settings page and action.
	RouteAdminSettings = "/admin/settings"
	// RouteAdminChangePassword is the forced password-change page and action.
	RouteAdminChangePassword = "/admin/change-password"
)
